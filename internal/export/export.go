// Package export builds bounded, shareable renditions of a calculation.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/amortize/internal/calculator"
	"github.com/iwvelando/amortize/pkg/amortization"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/format"
)

// Report is a calculation limited to its first rows. Totals always cover the
// full schedule.
type Report struct {
	Name      string                      `json:"name,omitempty"`
	Params    calculator.ParamsView       `json:"params"`
	Summary   amortization.Summary        `json:"summary"`
	Rows      []amortization.DisplayEntry `json:"rows"`
	TotalRows int                         `json:"totalRows"`
	Truncated bool                        `json:"truncated"`
	Note      string                      `json:"note,omitempty"`
	Share     string                      `json:"share"`
}

// New builds a Report holding at most limit rows. A non-positive limit uses
// constants.ExportRowLimit.
func New(calc calculator.Calculation, limit int) Report {
	if limit <= 0 {
		limit = constants.ExportRowLimit
	}

	total := calc.Result.Periods()
	shown := total
	if shown > limit {
		shown = limit
	}

	rows := make([]amortization.DisplayEntry, shown)
	for i := 0; i < shown; i++ {
		rows[i] = calc.Result.Schedule[i].Display()
	}

	report := Report{
		Name:      calc.Name,
		Params:    calculator.NewParamsView(calc.Result.Params),
		Summary:   calc.Result.Summary(),
		Rows:      rows,
		TotalRows: total,
		Truncated: total > shown,
		Share:     ShareText(calc),
	}
	if report.Truncated {
		report.Note = fmt.Sprintf("Showing the first %d of %d total payments.", shown, total)
	}
	return report
}

// ShareText is a short plain-text summary suitable for pasting elsewhere.
func ShareText(calc calculator.Calculation) string {
	summary := calc.Result.Summary()
	params := calc.Result.Params

	var b strings.Builder
	b.WriteString("Loan Calculator Results:\n")
	if calc.Name != "" {
		fmt.Fprintf(&b, "Loan: %s\n", calc.Name)
	}
	fmt.Fprintf(&b, "Loan Amount: %s\n", format.Currency(summary.Principal))
	fmt.Fprintf(&b, "Interest Rate: %s\n", format.Percent(params.AnnualRatePercent))
	fmt.Fprintf(&b, "Loan Term: %d months\n", params.TermMonths)
	fmt.Fprintf(&b, "Monthly Payment: %s\n", format.Currency(summary.PeriodicPayment))
	fmt.Fprintf(&b, "Total Payment: %s\n", format.Currency(summary.TotalPaid))
	fmt.Fprintf(&b, "Total Interest: %s", format.Currency(summary.TotalInterest))
	if calc.Savings != nil {
		savings := calc.Savings.Display()
		fmt.Fprintf(&b, "\nInterest Saved: %s (%d years %d months sooner)",
			format.Currency(savings.InterestSavings), savings.YearsSaved, savings.MonthsSaved)
	}
	return b.String()
}

// WriteText renders the report as a plain-text document.
func WriteText(w io.Writer, report Report) error {
	var b strings.Builder

	b.WriteString("Loan Summary\n")
	fmt.Fprintf(&b, "Loan Amount: %s\n", format.Currency(report.Params.Principal))
	fmt.Fprintf(&b, "Annual Interest Rate: %s%%\n", report.Params.AnnualRatePercent.StringFixed(constants.DecimalPlaces))
	fmt.Fprintf(&b, "Loan Term: %d months\n", report.Params.TermMonths)
	fmt.Fprintf(&b, "Monthly Payment: %s\n", format.Currency(report.Summary.PeriodicPayment))
	fmt.Fprintf(&b, "Total Payment: %s\n", format.Currency(report.Summary.TotalPaid))
	fmt.Fprintf(&b, "Total Interest: %s\n\n", format.Currency(report.Summary.TotalInterest))

	fmt.Fprintf(&b, "%-4s %-15s %14s %14s %14s %16s\n", "#", "Month", "Payment", "Principal", "Interest", "Balance")
	for _, row := range report.Rows {
		fmt.Fprintf(&b, "%-4d %-15s %14s %14s %14s %16s\n",
			row.PeriodIndex, row.PeriodLabel,
			format.NumericCurrency(row.Payment), format.NumericCurrency(row.Principal),
			format.NumericCurrency(row.Interest), format.NumericCurrency(row.RemainingBalance))
	}
	if report.Note != "" {
		fmt.Fprintf(&b, "\nNote: %s\n", report.Note)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
