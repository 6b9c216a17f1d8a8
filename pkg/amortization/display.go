package amortization

import (
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/shopspring/decimal"
)

// Cents rounds a full-precision amount to two decimal places for display.
func Cents(val float64) decimal.Decimal {
	return decimal.NewFromFloat(val).Round(constants.DecimalPlaces)
}

// DisplayEntry is a ScheduleEntry rounded to cents.
type DisplayEntry struct {
	PeriodIndex      int             `json:"period"`
	PeriodLabel      string          `json:"label,omitempty"`
	Payment          decimal.Decimal `json:"payment"`
	Interest         decimal.Decimal `json:"interest"`
	Principal        decimal.Decimal `json:"principal"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

// Display rounds the entry for presentation.
func (e ScheduleEntry) Display() DisplayEntry {
	return DisplayEntry{
		PeriodIndex:      e.PeriodIndex,
		PeriodLabel:      e.PeriodLabel,
		Payment:          Cents(e.Payment),
		Interest:         Cents(e.Interest),
		Principal:        Cents(e.Principal),
		RemainingBalance: Cents(e.RemainingBalance),
	}
}

// Summary is the rounded headline view of a Result, suitable for widgets and
// for persisting alongside the loan parameters.
type Summary struct {
	Principal       decimal.Decimal `json:"principal"`
	PeriodicPayment decimal.Decimal `json:"periodicPayment"`
	TotalPaid       decimal.Decimal `json:"totalPaid"`
	TotalInterest   decimal.Decimal `json:"totalInterest"`
	Payments        int             `json:"payments"`
	PayoffLabel     string          `json:"payoffLabel,omitempty"`
}

// Summary rounds the aggregates of r.
func (r *Result) Summary() Summary {
	return Summary{
		Principal:       Cents(r.Params.Principal),
		PeriodicPayment: Cents(r.PeriodicPayment),
		TotalPaid:       Cents(r.TotalPaid),
		TotalInterest:   Cents(r.TotalInterest),
		Payments:        len(r.Schedule),
		PayoffLabel:     r.Last().PeriodLabel,
	}
}

// DisplaySchedule rounds every entry of the schedule.
func (r *Result) DisplaySchedule() []DisplayEntry {
	rows := make([]DisplayEntry, len(r.Schedule))
	for i, entry := range r.Schedule {
		rows[i] = entry.Display()
	}
	return rows
}

// SavingsView is Savings rounded for presentation.
type SavingsView struct {
	InterestSavings decimal.Decimal `json:"interestSavings"`
	PeriodsSaved    int             `json:"periodsSaved"`
	YearsSaved      int             `json:"yearsSaved"`
	MonthsSaved     int             `json:"monthsSaved"`
}

// Display rounds the savings and splits the periods saved into years and months.
func (s Savings) Display() SavingsView {
	years, months := s.TimeSaved()
	return SavingsView{
		InterestSavings: Cents(s.InterestSavings),
		PeriodsSaved:    s.PeriodsSaved,
		YearsSaved:      years,
		MonthsSaved:     months,
	}
}
