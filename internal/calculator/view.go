package calculator

import (
	"github.com/iwvelando/amortize/internal/config"
	"github.com/iwvelando/amortize/pkg/amortization"
	"github.com/shopspring/decimal"
)

// ParamsView echoes the loan parameters of a calculation.
type ParamsView struct {
	Principal               decimal.Decimal `json:"principal"`
	AnnualRatePercent       decimal.Decimal `json:"annualRatePercent"`
	TermMonths              int             `json:"termMonths"`
	ExtraPrincipalPerPeriod decimal.Decimal `json:"extraPrincipalPerPeriod"`
	StartDate               string          `json:"startDate,omitempty"`
}

// View is a Calculation rounded for presentation.
type View struct {
	Name     string                      `json:"name,omitempty"`
	Params   ParamsView                  `json:"params"`
	Summary  amortization.Summary        `json:"summary"`
	Schedule []amortization.DisplayEntry `json:"schedule"`
	Baseline *amortization.Summary       `json:"baseline,omitempty"`
	Savings  *amortization.SavingsView   `json:"savings,omitempty"`
}

// ComparisonView is a Comparison rounded for presentation.
type ComparisonView struct {
	Base        amortization.Summary     `json:"base"`
	Alternative amortization.Summary     `json:"alternative"`
	Savings     amortization.SavingsView `json:"savings"`
}

// NewParamsView rounds params for presentation.
func NewParamsView(params amortization.LoanParameters) ParamsView {
	view := ParamsView{
		Principal:               amortization.Cents(params.Principal),
		AnnualRatePercent:       decimal.NewFromFloat(params.AnnualRatePercent),
		TermMonths:              params.TermMonths,
		ExtraPrincipalPerPeriod: amortization.Cents(params.ExtraPrincipalPerPeriod),
	}
	if !params.StartDate.IsZero() {
		view.StartDate = params.StartDate.Format(config.DateTimeLayout)
	}
	return view
}

// View rounds the calculation for presentation.
func (c Calculation) View() View {
	view := View{
		Name:     c.Name,
		Params:   NewParamsView(c.Result.Params),
		Summary:  c.Result.Summary(),
		Schedule: c.Result.DisplaySchedule(),
	}
	if c.Baseline != nil {
		baseline := c.Baseline.Summary()
		view.Baseline = &baseline
	}
	if c.Savings != nil {
		savings := c.Savings.Display()
		view.Savings = &savings
	}
	return view
}

// View rounds the comparison for presentation.
func (c Comparison) View() ComparisonView {
	return ComparisonView{
		Base:        c.Base.Summary(),
		Alternative: c.Alternative.Summary(),
		Savings:     c.Savings.Display(),
	}
}
