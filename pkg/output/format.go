// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/amortize/internal/calculator"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders results to w in the named output format.
func Write(w io.Writer, outputFormat string, results []calculator.Calculation) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []calculator.Calculation) error {
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}

	for i, calc := range results {
		view := calc.View()
		summary := view.Summary

		ew.printf("--- Results for loan %s ---\n", calc.Name)
		ew.printf("Principal: %s at %s for %d months\n",
			format.Currency(view.Params.Principal), format.Percent(calc.Result.Params.AnnualRatePercent), view.Params.TermMonths)
		if !view.Params.ExtraPrincipalPerPeriod.IsZero() {
			ew.printf("Extra principal per period: %s\n", format.Currency(view.Params.ExtraPrincipalPerPeriod))
		}
		ew.printf("Monthly payment: %s\n", format.Currency(summary.PeriodicPayment))
		ew.printf("Total paid: %s\n", format.Currency(summary.TotalPaid))
		ew.printf("Total interest: %s\n", format.Currency(summary.TotalInterest))
		if summary.PayoffLabel != "" {
			ew.printf("Payments: %d (paid off %s)\n", summary.Payments, summary.PayoffLabel)
		} else {
			ew.printf("Payments: %d\n", summary.Payments)
		}
		if view.Savings != nil {
			ew.printf("Interest saved: %s\n", format.Currency(view.Savings.InterestSavings))
			ew.printf("Time saved: %d years %d months\n", view.Savings.YearsSaved, view.Savings.MonthsSaved)
		}

		ew.printf("\n#   | Period         | Payment      | Interest     | Principal    | Balance\n")
		ew.printf("___ | ______________ | ____________ | ____________ | ____________ | _______\n")
		for _, row := range view.Schedule {
			ew.sprint(p.Sprintf("%-3d | %-14s | $%11.2f | $%11.2f | $%11.2f | $%.2f\n",
				row.PeriodIndex, row.PeriodLabel,
				row.Payment.InexactFloat64(), row.Interest.InexactFloat64(),
				row.Principal.InexactFloat64(), row.RemainingBalance.InexactFloat64()))
		}
		if i < len(results)-1 {
			ew.printf("\n")
		}
	}
	return ew.err
}

// CsvFormat outputs every schedule row in comma-separated value format.
func CsvFormat(w io.Writer, results []calculator.Calculation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"loan", "period", "label", "payment", "interest", "principal", "remaining balance"}); err != nil {
		return err
	}
	for _, calc := range results {
		for _, row := range calc.Result.DisplaySchedule() {
			record := []string{
				calc.Name,
				strconv.Itoa(row.PeriodIndex),
				row.PeriodLabel,
				row.Payment.StringFixed(constants.DecimalPlaces),
				row.Interest.StringFixed(constants.DecimalPlaces),
				row.Principal.StringFixed(constants.DecimalPlaces),
				row.RemainingBalance.StringFixed(constants.DecimalPlaces),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs the rounded calculation views as an indented JSON array.
func JSONFormat(w io.Writer, results []calculator.Calculation) error {
	views := make([]calculator.View, len(results))
	for i, calc := range results {
		views[i] = calc.View()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}

// errWriter keeps the first write error so formatting code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) sprint(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}
