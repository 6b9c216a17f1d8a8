package config

import (
	"fmt"

	"github.com/iwvelando/amortize/pkg/amortization"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/datetime"
	"github.com/iwvelando/amortize/pkg/format"
)

// Loan indicates a loan and its parameters.
type Loan struct {
	Name           string  `yaml:"name"`
	Principal      float64 `yaml:"principal"`
	AnnualRate     float64 `yaml:"annualRate"` // percent
	TermMonths     int     `yaml:"termMonths"`
	ExtraPrincipal float64 `yaml:"extraPrincipal,omitempty"`
	StartDate      string  `yaml:"startDate,omitempty"` // YYYY-MM or YYYY-MM-DD
}

// DisplayName returns the loan name, or a positional name when it has none.
func (loan Loan) DisplayName(index int) string {
	if loan.Name != "" {
		return fmt.Sprintf("Loan '%s'", loan.Name)
	}
	return fmt.Sprintf("Loan %d", index+1)
}

// Parameters converts the configured loan into validated engine parameters.
func (loan Loan) Parameters() (amortization.LoanParameters, error) {
	start, err := datetime.ParseStartDate(loan.StartDate)
	if err != nil {
		return amortization.LoanParameters{}, &amortization.InvalidInputError{
			Field:  amortization.FieldStartDate,
			Value:  loan.StartDate,
			Reason: "expected YYYY-MM or YYYY-MM-DD",
		}
	}

	params := amortization.LoanParameters{
		Principal:               loan.Principal,
		AnnualRatePercent:       loan.AnnualRate,
		TermMonths:              loan.TermMonths,
		ExtraPrincipalPerPeriod: loan.ExtraPrincipal,
		StartDate:               start,
	}
	if err := params.Validate(); err != nil {
		return amortization.LoanParameters{}, err
	}
	return params, nil
}

// Warnings reports settings that are valid but probably unintended.
func (loan Loan) Warnings(name string) []string {
	var warnings []string

	if loan.StartDate == "" {
		warnings = append(warnings, fmt.Sprintf("%s has no start date, period labels will be omitted", name))
	}

	longest := constants.TermPresets[len(constants.TermPresets)-1].Months
	if loan.TermMonths > longest && loan.TermMonths <= constants.MaxTermMonths {
		warnings = append(warnings, fmt.Sprintf("%s term of %d months is longer than the %s preset",
			name, loan.TermMonths, constants.TermPresets[len(constants.TermPresets)-1].Label))
	}

	if loan.Principal > 0 && loan.ExtraPrincipal >= loan.Principal {
		warnings = append(warnings, fmt.Sprintf("%s extra principal of %s covers the whole principal, it will be paid off in the first period",
			name, format.CurrencyFloat(loan.ExtraPrincipal)))
	}

	return warnings
}
