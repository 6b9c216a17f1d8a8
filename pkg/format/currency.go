// Package format renders monetary amounts for people to read.
package format

import (
	"strings"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount decimal.Decimal) string {
	formatted := formatPositiveCurrency(amount.Abs())
	if amount.Round(constants.DecimalPlaces).IsNegative() {
		return "-$" + formatted
	}
	return "$" + formatted
}

// CurrencyFloat is Currency for a full-precision float64 amount.
func CurrencyFloat(amount float64) string {
	return Currency(decimal.NewFromFloat(amount))
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.Round(constants.DecimalPlaces).IsNegative() {
		sign = "-"
	}
	return sign + formatPositiveCurrency(amount.Abs())
}

// Percent renders an annual rate such as 6.5 as "6.50%".
func Percent(rate float64) string {
	return decimal.NewFromFloat(rate).StringFixed(constants.DecimalPlaces) + "%"
}

func formatPositiveCurrency(value decimal.Decimal) string {
	formatted := value.StringFixed(constants.DecimalPlaces)
	intPart, decPart, found := strings.Cut(formatted, ".")
	if !found {
		decPart = "00"
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
