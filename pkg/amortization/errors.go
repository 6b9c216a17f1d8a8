package amortization

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every *InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid loan input")

// ErrNonFiniteResult indicates the periodic payment overflowed or was
// otherwise not a finite positive number.
var ErrNonFiniteResult = errors.New("periodic payment is not a finite positive number")

// Field names reported by InvalidInputError.
const (
	FieldPrincipal      = "principal"
	FieldAnnualRate     = "annualRatePercent"
	FieldTermMonths     = "termMonths"
	FieldExtraPrincipal = "extraPrincipalPerPeriod"
	FieldStartDate      = "startDate"
)

// InvalidInputError identifies the loan parameter that failed validation.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field string, value interface{}, reason string) *InvalidInputError {
	var shown string
	switch v := value.(type) {
	case nil:
	case string:
		shown = v
	default:
		shown = fmt.Sprint(v)
	}
	return &InvalidInputError{Field: field, Value: shown, Reason: reason}
}
