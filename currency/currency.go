/*
Package currency renders rupee amounts for display.

Amounts are formatted with Indian digit grouping via x/text and rounded
to two decimals. Non-finite input renders a placeholder instead of
failing, so a broken upstream value degrades to "₹ --" in the UI rather
than an error.
*/
package currency

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is rendered for non-numeric amounts.
const Placeholder = "₹ --"

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Format renders amount as a localized INR string with two decimals,
// e.g. 1234.5 -> "₹1,234.50". NaN and ±Inf render the placeholder.
func Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Placeholder
	}
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return printer.Sprintf("₹%v", number.Decimal(rounded,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
