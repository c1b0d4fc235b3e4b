// Package ledger builds the general ledger: per-account opening balance,
// turnover and closing balance, and per-account posting detail with a
// running balance.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/aggregate"
	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/report"
	"github.com/cleared-dev/statements/internal/template"
)

// ErrUnknownAccount is returned by Detail for a code missing from the chart.
var ErrUnknownAccount = errors.New("unknown account")

// Chart is the part of the chart of accounts the ledger reads.
type Chart interface {
	AtLevel(level int) []model.Account
	Get(code string) (model.Account, bool)
}

// Trial-balance columns.
const (
	ColumnOpening template.Column = "opening"
	ColumnPeriod  template.Column = "period"
	ColumnClosing template.Column = "closing"
)

// SummaryRow is one account of the general ledger. Opening and Closing are
// positive on the account's natural side.
type SummaryRow struct {
	Account      model.Account
	Opening      decimal.Decimal
	PeriodDebit  decimal.Decimal
	PeriodCredit decimal.Decimal
	YearDebit    decimal.Decimal
	YearCredit   decimal.Decimal
	Closing      decimal.Decimal
}

// Summary is the general ledger at one hierarchy level.
type Summary struct {
	Title       string
	Window      model.Window
	FiscalStart time.Time
	Level       int
	Rows        []SummaryRow
	// Totals holds the debit/credit split of every column.
	OpeningDebit, OpeningCredit decimal.Decimal
	PeriodDebit, PeriodCredit   decimal.Decimal
	YearDebit, YearCredit       decimal.Decimal
	ClosingDebit, ClosingCredit decimal.Decimal

	Discrepancies []report.Discrepancy
}

// Summarize returns the ledger of every account at level over w, one row per
// line of the general-ledger template in row order. Level 1
// accounts partition all postings, so at level 1 the trial balance is checked:
// opening, period turnover and closing must each have equal debit and credit
// totals.
func Summarize(agg *aggregate.Aggregator, chart Chart, w model.Window, fyStart time.Time, level int) *Summary {
	st := template.GeneralLedger(chart, level)
	s := &Summary{Title: st.Title, Window: w, FiscalStart: fyStart, Level: level}
	before := model.Day(w.Start).AddDate(0, 0, -1)
	year := model.Window{Start: fyStart, End: w.End}

	for _, l := range st.Lines {
		codes := l.Codes
		a, _ := chart.Get(codes[0])
		row := SummaryRow{
			Account: a,
			Opening: agg.Balance(codes, before, l.Side),
			Closing: agg.Balance(codes, w.End, l.Side),
		}
		row.PeriodDebit, row.PeriodCredit = agg.Turnover(codes, w)
		row.YearDebit, row.YearCredit = agg.Turnover(codes, year)
		s.Rows = append(s.Rows, row)

		s.OpeningDebit, s.OpeningCredit = split(s.OpeningDebit, s.OpeningCredit, agg.Balance(codes, before, model.Debit))
		s.ClosingDebit, s.ClosingCredit = split(s.ClosingDebit, s.ClosingCredit, agg.Balance(codes, w.End, model.Debit))
		s.PeriodDebit = s.PeriodDebit.Add(row.PeriodDebit)
		s.PeriodCredit = s.PeriodCredit.Add(row.PeriodCredit)
		s.YearDebit = s.YearDebit.Add(row.YearDebit)
		s.YearCredit = s.YearCredit.Add(row.YearCredit)
	}

	if level == 1 {
		for _, c := range []struct {
			col           template.Column
			debit, credit decimal.Decimal
		}{
			{ColumnOpening, s.OpeningDebit, s.OpeningCredit},
			{ColumnPeriod, s.PeriodDebit, s.PeriodCredit},
			{ColumnClosing, s.ClosingDebit, s.ClosingCredit},
		} {
			if d, failed := report.Compare("debits = credits", c.col, c.debit, c.credit); failed {
				s.Discrepancies = append(s.Discrepancies, d)
			}
		}
	}
	return s
}

// split adds a debit-positive balance to the debit or credit total.
func split(debit, credit, balance decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if balance.IsNegative() {
		return debit, credit.Sub(balance)
	}
	return debit.Add(balance), credit
}

// DetailRow is one posting with the account balance after it.
type DetailRow struct {
	aggregate.Posting
	Balance decimal.Decimal
}

// AccountDetail lists the postings to one account inside a window. Balances
// are positive on the account's natural side.
type AccountDetail struct {
	Account model.Account
	Window  model.Window
	Opening decimal.Decimal
	Rows    []DetailRow
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Closing decimal.Decimal
}

// Detail returns every posting to code, or beneath it, inside w with a
// running balance.
func Detail(agg *aggregate.Aggregator, chart Chart, code string, w model.Window) (*AccountDetail, error) {
	a, ok := chart.Get(code)
	if !ok {
		return nil, fmt.Errorf("%s: %w", code, ErrUnknownAccount)
	}

	d := &AccountDetail{
		Account: a,
		Window:  w,
		Opening: agg.Balance([]string{code}, model.Day(w.Start).AddDate(0, 0, -1), a.Direction),
	}
	bal := d.Opening
	for _, p := range agg.Lines(code, w) {
		net := p.Line.Net()
		if a.Direction == model.Credit {
			net = net.Neg()
		}
		bal = bal.Add(net)
		d.Debit = d.Debit.Add(p.Line.Debit)
		d.Credit = d.Credit.Add(p.Line.Credit)
		d.Rows = append(d.Rows, DetailRow{Posting: p, Balance: bal})
	}
	d.Closing = bal
	return d, nil
}
