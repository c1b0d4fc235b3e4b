package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/money"
	"github.com/cleared-dev/statements/internal/template"
)

// Discrepancy is a balance check that failed in one column.
type Discrepancy struct {
	Check  string
	Column template.Column
	Left   decimal.Decimal
	Right  decimal.Decimal
	Diff   decimal.Decimal
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("%s [%s]: %s vs %s (diff %s)",
		d.Check, d.Column, money.Format(d.Left), money.Format(d.Right), money.Format(d.Diff))
}

// Compare returns a discrepancy when left and right differ by the tolerance
// or more.
func Compare(name string, col template.Column, left, right decimal.Decimal) (Discrepancy, bool) {
	if money.WithinTolerance(left, right) {
		return Discrepancy{}, false
	}
	return Discrepancy{
		Check:  name,
		Column: col,
		Left:   left,
		Right:  right,
		Diff:   left.Sub(right),
	}, true
}
