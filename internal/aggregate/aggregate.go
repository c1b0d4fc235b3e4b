// Package aggregate computes account balances and movements over a read-only
// snapshot of the chart of accounts and the voucher list.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/accounts"
	"github.com/cleared-dev/statements/internal/model"
)

// Shape selects whether a query includes opening balances.
type Shape int

const (
	// WithOpening adds leaf initial balances to the movement.
	WithOpening Shape = iota
	// MovementOnly returns voucher movement inside the window only.
	MovementOnly
)

// Query describes one ComputeNet call. A zero Start is unbounded below and a
// zero End unbounded above.
type Query struct {
	Codes          []string
	Start, End     time.Time
	Side           model.Direction
	Shape          Shape
	ExcludeClosing bool
}

// Window returns the query's date range.
func (q Query) Window() model.Window {
	return model.Window{Start: q.Start, End: q.End}
}

// Chart is the part of the chart of accounts the aggregator reads.
type Chart interface {
	LeavesUnder(code string) []model.Account
}

// Options control voucher eligibility.
type Options struct {
	// IncludeDraft counts draft vouchers alongside approved ones.
	IncludeDraft bool
	// ClosingPredicate recognises period-end closing transfers. Nil means
	// ClosingTransfer(accounts.ProfitAccount).
	ClosingPredicate func(model.Voucher) bool
}

// Aggregator answers balance queries. It never modifies the chart or the
// vouchers it was built from.
type Aggregator struct {
	chart    Chart
	vouchers []model.Voucher // eligible only, ordered by date then ID
	closing  []bool
}

// New builds an Aggregator over chart and vouchers.
func New(chart Chart, vouchers []model.Voucher, opts Options) *Aggregator {
	isClosing := opts.ClosingPredicate
	if isClosing == nil {
		isClosing = ClosingTransfer(accounts.ProfitAccount)
	}

	agg := &Aggregator{chart: chart}
	for _, v := range vouchers {
		if Eligible(v, opts.IncludeDraft) {
			agg.vouchers = append(agg.vouchers, v)
		}
	}
	sort.SliceStable(agg.vouchers, func(i, j int) bool {
		a, b := agg.vouchers[i], agg.vouchers[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	})
	agg.closing = make([]bool, len(agg.vouchers))
	for i, v := range agg.vouchers {
		agg.closing[i] = isClosing(v)
	}
	return agg
}

// Eligible reports whether v takes part in balance computation: approved
// always, draft when includeDraft is set, void never.
func Eligible(v model.Voucher, includeDraft bool) bool {
	switch v.Status {
	case model.StatusApproved:
		return true
	case model.StatusDraft:
		return includeDraft
	}
	return false
}

// ComputeNet returns opening plus movement (or movement only) for the codes,
// positive on q.Side. Codes beneath another selected code are dropped first so
// no posting is counted twice. An empty code list yields zero.
func (a *Aggregator) ComputeNet(q Query) decimal.Decimal {
	codes := accounts.Minimal(q.Codes)
	if len(codes) == 0 {
		return decimal.Zero
	}

	// Debit-positive until the very end.
	net := decimal.Zero

	if q.Shape == WithOpening {
		for _, code := range codes {
			for _, leaf := range a.chart.LeavesUnder(code) {
				net = net.Add(leaf.SignedInitial())
			}
		}
	}

	w := q.Window()
	for i, v := range a.vouchers {
		if !w.Contains(v.Date) {
			continue
		}
		if q.ExcludeClosing && a.closing[i] {
			continue
		}
		for _, l := range v.Lines {
			if matchAny(l.SubjectCode, codes) {
				net = net.Add(l.Net())
			}
		}
	}

	if q.Side == model.Credit {
		return net.Neg()
	}
	return net
}

// Balance returns the cumulative balance of codes as of the end of asOf.
func (a *Aggregator) Balance(codes []string, asOf time.Time, side model.Direction) decimal.Decimal {
	return a.ComputeNet(Query{Codes: codes, End: asOf, Side: side, Shape: WithOpening})
}

// Movement returns voucher movement inside w.
func (a *Aggregator) Movement(codes []string, w model.Window, side model.Direction, excludeClosing bool) decimal.Decimal {
	return a.ComputeNet(Query{
		Codes:          codes,
		Start:          w.Start,
		End:            w.End,
		Side:           side,
		Shape:          MovementOnly,
		ExcludeClosing: excludeClosing,
	})
}

// Turnover returns the gross debit and credit posted to codes inside w.
func (a *Aggregator) Turnover(codes []string, w model.Window) (debit, credit decimal.Decimal) {
	resolved := accounts.Minimal(codes)
	if len(resolved) == 0 {
		return decimal.Zero, decimal.Zero
	}
	for _, v := range a.vouchers {
		if !w.Contains(v.Date) {
			continue
		}
		for _, l := range v.Lines {
			if matchAny(l.SubjectCode, resolved) {
				debit = debit.Add(l.Debit)
				credit = credit.Add(l.Credit)
			}
		}
	}
	return debit, credit
}

// Posting is one voucher line together with its voucher header.
type Posting struct {
	VoucherID string
	Date      time.Time
	Status    model.VoucherStatus
	Line      model.VoucherLine
}

// Lines returns the eligible postings to code (or beneath it) inside w, in
// date order.
func (a *Aggregator) Lines(code string, w model.Window) []Posting {
	var result []Posting
	for _, v := range a.vouchers {
		if !w.Contains(v.Date) {
			continue
		}
		for _, l := range v.Lines {
			if model.Under(l.SubjectCode, code) {
				result = append(result, Posting{VoucherID: v.ID, Date: v.Date, Status: v.Status, Line: l})
			}
		}
	}
	return result
}

func matchAny(code string, resolved []string) bool {
	for _, r := range resolved {
		if model.Under(code, r) {
			return true
		}
	}
	return false
}
