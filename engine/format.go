package engine

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ============================================================================
// FORMATTING — Labels and numbers for tables, charts and bin labels
// ============================================================================

var (
	printer = message.NewPrinter(language.English)
	titler  = cases.Title(language.English)
)

// FormatCompact renders a bin edge: values of at least 1000 become whole
// thousands ("85K"), smaller values keep their integer part.
// Halves round to even.
func FormatCompact(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%dK", int64(math.RoundToEven(v/1000)))
	}
	return fmt.Sprintf("%d", int64(v))
}

// FormatCurrency renders an amount with grouped thousands, e.g. "$85,000" or
// "$85,000.50". Fractions are shown only when present.
func FormatCurrency(amount float64, symbol string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	amount = RoundTo2(amount)
	if amount == math.Trunc(amount) {
		return sign + symbol + printer.Sprintf("%.0f", amount)
	}
	return sign + symbol + printer.Sprintf("%.2f", amount)
}

// FormatInt renders n with grouped thousands.
func FormatInt(n int) string {
	return printer.Sprintf("%d", n)
}

// LabelForDimension turns a column key into a title-cased label:
// "company_size_label" → "Company Size Label".
func LabelForDimension(dimension string) string {
	if dimension == "" {
		return ""
	}
	return titler.String(strings.ReplaceAll(dimension, "_", " "))
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
