package amortization

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/datetime"
	"github.com/shopspring/decimal"
)

// LoanParameters is the complete input of one calculation. A value is built
// once per request and never mutated afterwards.
type LoanParameters struct {
	Principal               float64
	AnnualRatePercent       float64
	TermMonths              int
	ExtraPrincipalPerPeriod float64
	// StartDate only labels periods; it has no effect on the numbers.
	StartDate time.Time
}

// RawInput carries loan parameters as the user typed them.
type RawInput struct {
	Principal      string `json:"principal" yaml:"principal"`
	AnnualRate     string `json:"annualRate" yaml:"annualRate"`
	TermMonths     string `json:"termMonths" yaml:"termMonths"`
	ExtraPrincipal string `json:"extraPrincipal,omitempty" yaml:"extraPrincipal,omitempty"`
	StartDate      string `json:"startDate,omitempty" yaml:"startDate,omitempty"`
}

// WithExtraPrincipal returns a copy of p with a different extra principal.
func (p LoanParameters) WithExtraPrincipal(extra float64) LoanParameters {
	p.ExtraPrincipalPerPeriod = extra
	return p
}

// Validate checks every field and returns an *InvalidInputError naming the
// first one that is out of range.
func (p LoanParameters) Validate() error {
	switch {
	case math.IsNaN(p.Principal) || math.IsInf(p.Principal, 0):
		return invalid(FieldPrincipal, p.Principal, "must be a finite number")
	case p.Principal <= 0:
		return invalid(FieldPrincipal, p.Principal, "must be greater than zero")
	case p.Principal > constants.MaxPrincipal:
		return invalid(FieldPrincipal, p.Principal, "exceeds the maximum loan amount")
	}

	switch {
	case math.IsNaN(p.AnnualRatePercent) || math.IsInf(p.AnnualRatePercent, 0):
		return invalid(FieldAnnualRate, p.AnnualRatePercent, "must be a finite number")
	case p.AnnualRatePercent < 0:
		return invalid(FieldAnnualRate, p.AnnualRatePercent, "must not be negative")
	case p.AnnualRatePercent > constants.MaxAnnualRatePercent:
		return invalid(FieldAnnualRate, p.AnnualRatePercent, "cannot exceed 100%")
	}

	switch {
	case p.TermMonths < constants.MinTermMonths:
		return invalid(FieldTermMonths, p.TermMonths, "must be at least one month")
	case p.TermMonths > constants.MaxTermMonths:
		return invalid(FieldTermMonths, p.TermMonths, "cannot exceed 600 months")
	}

	switch {
	case math.IsNaN(p.ExtraPrincipalPerPeriod) || math.IsInf(p.ExtraPrincipalPerPeriod, 0):
		return invalid(FieldExtraPrincipal, p.ExtraPrincipalPerPeriod, "must be a finite number")
	case p.ExtraPrincipalPerPeriod < 0:
		return invalid(FieldExtraPrincipal, p.ExtraPrincipalPerPeriod, "must not be negative")
	}

	return nil
}

// ParseLoanParameters converts user-entered strings into validated
// LoanParameters. Empty required fields and non-numeric text are rejected
// rather than treated as zero.
func ParseLoanParameters(raw RawInput) (LoanParameters, error) {
	var params LoanParameters
	var err error

	if params.Principal, err = parseAmount(FieldPrincipal, raw.Principal, true); err != nil {
		return LoanParameters{}, err
	}
	if params.AnnualRatePercent, err = parseAmount(FieldAnnualRate, raw.AnnualRate, true); err != nil {
		return LoanParameters{}, err
	}

	term := strings.TrimSpace(raw.TermMonths)
	if term == "" {
		return LoanParameters{}, invalid(FieldTermMonths, nil, "is required")
	}
	if params.TermMonths, err = strconv.Atoi(term); err != nil {
		return LoanParameters{}, invalid(FieldTermMonths, raw.TermMonths, "must be a whole number of months")
	}

	if params.ExtraPrincipalPerPeriod, err = parseAmount(FieldExtraPrincipal, raw.ExtraPrincipal, false); err != nil {
		return LoanParameters{}, err
	}

	if params.StartDate, err = datetime.ParseStartDate(raw.StartDate); err != nil {
		return LoanParameters{}, invalid(FieldStartDate, raw.StartDate, "expected YYYY-MM or YYYY-MM-DD")
	}

	if err := params.Validate(); err != nil {
		return LoanParameters{}, err
	}
	return params, nil
}

// parseAmount uses decimal parsing so that "NaN", "Inf" and hex floats are
// rejected along with other non-numeric text.
func parseAmount(field, value string, required bool) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return 0, invalid(field, nil, "is required")
		}
		return 0, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(trimmed, ",", ""))
	if err != nil {
		return 0, invalid(field, value, "must be a number")
	}
	return d.InexactFloat64(), nil
}
