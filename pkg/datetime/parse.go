// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/amortize/pkg/constants"
)

const (
	// DateTimeLayout is the month-granularity format expected in config files
	// and requests.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseStartDate parses a loan start date given as YYYY-MM or YYYY-MM-DD. The
// result is normalized to the first day of its month in UTC. An empty string
// yields the zero time.
func ParseStartDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{DateTimeLayout, constants.DateLayout} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return MonthStart(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start date %q: expected YYYY-MM or YYYY-MM-DD", value)
}

// MonthStart returns midnight UTC on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PeriodLabel names the month in which the given 1-based period falls, counting
// from start, e.g. start 2026-01 and period 1 gives "February 2026". A zero
// start yields an empty label.
func PeriodLabel(start time.Time, period int) string {
	if start.IsZero() {
		return ""
	}
	return MonthStart(start).AddDate(0, period, 0).Format(constants.PeriodLabelLayout)
}
