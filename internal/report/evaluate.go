// Package report evaluates compiled statement templates against an
// aggregator and checks the accounting identities they declare.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/aggregate"
	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/template"
)

// Row is one computed statement line.
type Row struct {
	Line   template.Line
	Values map[template.Column]decimal.Decimal
}

// Result is a computed statement.
type Result struct {
	Kind          template.Kind
	Title         string
	Period        model.Window
	FiscalStart   time.Time
	Columns       []template.Column
	Rows          []Row
	Discrepancies []Discrepancy
	Issues        []model.Issue
	Warnings      []string
}

// Value returns the computed amount of row in col, zero if absent.
func (r *Result) Value(row int, col template.Column) decimal.Decimal {
	for _, rr := range r.Rows {
		if rr.Line.Row == row {
			return rr.Values[col]
		}
	}
	return decimal.Zero
}

// Cells returns row number -> column -> amount for every computed line.
// Header lines are omitted.
func (r *Result) Cells() map[int]map[template.Column]decimal.Decimal {
	cells := make(map[int]map[template.Column]decimal.Decimal, len(r.Rows))
	for _, rr := range r.Rows {
		if rr.Values != nil {
			cells[rr.Line.Row] = rr.Values
		}
	}
	return cells
}

// Balanced reports whether every balance check passed.
func (r *Result) Balanced() bool {
	return len(r.Discrepancies) == 0
}

// ColumnWindow returns the date range a column covers for a reporting period
// within a fiscal year starting at fyStart.
func ColumnWindow(col template.Column, period model.Window, fyStart time.Time) model.Window {
	switch col {
	case template.ColumnCurrentPeriod:
		return period
	case template.ColumnPriorYear:
		return model.Window{Start: lastYear(period.Start), End: lastYear(period.End)}
	case template.ColumnBeginningOfYear:
		return model.Window{Start: fyStart.AddDate(-1, 0, 0), End: fyStart.AddDate(0, 0, -1)}
	default: // ending_balance, year_to_date
		return model.Window{Start: fyStart, End: period.End}
	}
}

// lastYear shifts t back one year, clamping Feb 29 to Feb 28.
func lastYear(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	shifted := t.AddDate(-1, 0, 0)
	if shifted.Day() != t.Day() {
		shifted = shifted.AddDate(0, 0, -shifted.Day())
	}
	return shifted
}

// Evaluate computes every line of c for each of its columns: leaf lines
// through agg, then formula lines in compiled order. Rows a formula cannot
// resolve count as zero. Balance checks never abort evaluation; failures are
// returned as discrepancies. Evaluate does not modify its inputs.
func Evaluate(c *template.Compiled, agg *aggregate.Aggregator, period model.Window, fyStart time.Time) *Result {
	st := c.Statement
	res := &Result{
		Kind:        st.Kind,
		Title:       st.Title,
		Period:      period,
		FiscalStart: fyStart,
		Columns:     st.Columns,
		Warnings:    append([]string(nil), c.Warnings...),
	}

	cols := make(map[template.Column]map[int]decimal.Decimal, len(st.Columns))
	for _, col := range st.Columns {
		w := ColumnWindow(col, period, fyStart)
		values := make(map[int]decimal.Decimal)

		for _, leaf := range c.Leaves {
			values[leaf.Row] = leafValue(agg, st, leaf.Line, leaf.Exclude, w)
		}
		for pass := 0; pass < c.Passes; pass++ {
			for _, f := range c.Formulas {
				values[f.Row] = f.Formula.Eval(values)
			}
		}
		cols[col] = values

		for _, chk := range st.Checks {
			left := values[chk.Row]
			var right decimal.Decimal
			if chk.Independent != nil {
				right = leafValue(agg, st, *chk.Independent, nil, w)
			} else {
				right = values[chk.Against]
			}
			if d, failed := Compare(chk.Name, col, left, right); failed {
				res.Discrepancies = append(res.Discrepancies, d)
			}
		}
	}

	for _, l := range st.Lines {
		row := Row{Line: l}
		if !l.IsHeader() {
			row.Values = make(map[template.Column]decimal.Decimal, len(st.Columns))
			for _, col := range st.Columns {
				row.Values[col] = cols[col][l.Row]
			}
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func leafValue(agg *aggregate.Aggregator, st template.Statement, l template.Line, exclude []string, w model.Window) decimal.Decimal {
	side := l.Side
	if side == "" {
		side = model.Debit
	}
	switch l.Basis {
	case template.BasisOpening:
		return agg.Balance(l.Codes, model.Day(w.Start).AddDate(0, 0, -1), side)
	case template.BasisMovement:
		return agg.Movement(l.Codes, w, side, st.ExcludeClosing)
	case template.BasisCash:
		return agg.CashFlow(aggregate.CashQuery{
			CashCodes: st.CashCodes,
			Codes:     l.Codes,
			Exclude:   exclude,
			Window:    w,
			Flow:      l.Flow,
		})
	default:
		return agg.Balance(l.Codes, w.End, side)
	}
}
