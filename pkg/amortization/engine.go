// Package amortization computes fixed-rate, monthly-compounding loan payment
// schedules.
//
// All arithmetic is carried in float64 at full precision. Rounding to cents
// happens only through the Display and Summary views.
package amortization

import (
	"math"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/datetime"
	"github.com/iwvelando/amortize/pkg/mathutil"
)

// ScheduleEntry holds the values for a single period.
type ScheduleEntry struct {
	PeriodIndex      int
	PeriodLabel      string
	Payment          float64
	Interest         float64
	Principal        float64
	RemainingBalance float64
}

// Result is a complete schedule plus its aggregates.
type Result struct {
	Params          LoanParameters
	Schedule        []ScheduleEntry
	PeriodicPayment float64
	TotalPaid       float64
	TotalInterest   float64
}

// Savings compares two results computed for the same loan.
type Savings struct {
	InterestSavings float64
	PeriodsSaved    int
}

// ComputePeriodicPayment returns the level monthly payment that retires the
// principal over the term, ignoring extra principal.
func ComputePeriodicPayment(params LoanParameters) (float64, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}
	return periodicPayment(params)
}

func periodicPayment(params LoanParameters) (float64, error) {
	rate := mathutil.MonthlyRate(params.AnnualRatePercent)

	var payment float64
	if rate == 0 {
		payment = params.Principal / float64(params.TermMonths)
	} else {
		// (1+r)^n - 1 via Expm1 so tiny rates do not cancel to zero.
		growth := float64(params.TermMonths) * math.Log1p(rate)
		payment = params.Principal * (rate * math.Exp(growth)) / math.Expm1(growth)
	}

	if !mathutil.IsFinite(payment) || payment <= 0 {
		return 0, ErrNonFiniteResult
	}
	return payment, nil
}

// BuildSchedule produces the period-by-period schedule. The schedule stops as
// soon as the balance reaches zero, which is how extra principal shortens the
// loan. Either a complete result or an error is returned, never both.
func BuildSchedule(params LoanParameters) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	payment, err := periodicPayment(params)
	if err != nil {
		return nil, err
	}

	rate := mathutil.MonthlyRate(params.AnnualRatePercent)
	effectivePayment := payment + params.ExtraPrincipalPerPeriod
	residual := params.Principal * constants.ResidualBalanceFraction

	result := &Result{
		Params:          params,
		Schedule:        make([]ScheduleEntry, 0, params.TermMonths),
		PeriodicPayment: payment,
	}

	balance := params.Principal
	for period := 1; period <= params.TermMonths; period++ {
		interest := balance * rate
		principal := effectivePayment - interest
		paid := effectivePayment
		if principal < 0 {
			// Cancellation noise when the payment barely exceeds the interest.
			principal = 0
			paid = interest
		}

		// Pay off exactly what is left on overpayment, on the last period of
		// the term, or when only floating-point residue would remain.
		if principal > balance || period == params.TermMonths || balance-principal < residual {
			principal = balance
			paid = principal + interest
		}

		balance -= principal
		if balance < 0 {
			balance = 0
		}

		result.Schedule = append(result.Schedule, ScheduleEntry{
			PeriodIndex:      period,
			PeriodLabel:      datetime.PeriodLabel(params.StartDate, period),
			Payment:          paid,
			Interest:         interest,
			Principal:        principal,
			RemainingBalance: balance,
		})
		result.TotalPaid += paid
		result.TotalInterest += interest

		if balance == 0 {
			break
		}
	}

	if !mathutil.IsFinite(result.TotalPaid) || !mathutil.IsFinite(result.TotalInterest) {
		return nil, ErrNonFiniteResult
	}
	return result, nil
}

// CompareSchedules reports how much interest and how many periods the
// alternative saves relative to base. No sign correction is applied, so
// swapped arguments yield negative savings. A nil result counts as an empty
// schedule with no interest.
func CompareSchedules(base, alternative *Result) Savings {
	var savings Savings
	if base != nil {
		savings.InterestSavings += base.TotalInterest
		savings.PeriodsSaved += len(base.Schedule)
	}
	if alternative != nil {
		savings.InterestSavings -= alternative.TotalInterest
		savings.PeriodsSaved -= len(alternative.Schedule)
	}
	return savings
}

// TimeSaved splits PeriodsSaved into whole years and remaining months.
func (s Savings) TimeSaved() (years, months int) {
	return s.PeriodsSaved / constants.MonthsPerYear, s.PeriodsSaved % constants.MonthsPerYear
}

// Periods returns the number of payments in the schedule.
func (r *Result) Periods() int {
	return len(r.Schedule)
}

// Last returns the final schedule entry.
func (r *Result) Last() ScheduleEntry {
	if len(r.Schedule) == 0 {
		return ScheduleEntry{}
	}
	return r.Schedule[len(r.Schedule)-1]
}
