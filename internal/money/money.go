// Package money holds the monetary arithmetic used by every report.
// All amounts are shopspring decimals; binary floating point never appears.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Tolerance is the largest difference still treated as equal in balance checks.
var Tolerance = decimal.New(1, -2)

// Dash is what a zero amount renders as in statements.
const Dash = "—"

// Parse reads a non-negative amount. Empty input is zero and ok.
// Anything that is not a valid non-negative decimal comes back as zero with
// ok=false; callers record that as a data-quality issue and carry on.
func Parse(s string) (d decimal.Decimal, ok bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// Sum adds all amounts.
func Sum(ds ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}

// WithinTolerance reports whether |a-b| < Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Tolerance)
}

// Format renders d with two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatOrDash renders zero as Dash and everything else like Format.
func FormatOrDash(d decimal.Decimal) string {
	if d.Round(2).IsZero() {
		return Dash
	}
	return Format(d)
}

// Side returns d when positive is true and -d otherwise.
func Side(d decimal.Decimal, positive bool) decimal.Decimal {
	if positive {
		return d
	}
	return d.Neg()
}
