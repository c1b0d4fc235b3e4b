package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/accounts"
	"github.com/cleared-dev/statements/internal/model"
)

// Flow is the direction of a cash movement.
type Flow string

const (
	Inflow  Flow = "inflow"
	Outflow Flow = "outflow"
)

// Valid reports whether f is a known flow.
func (f Flow) Valid() bool {
	return f == Inflow || f == Outflow
}

// CashQuery selects cash-flow attribution for one statement line.
type CashQuery struct {
	CashCodes []string
	// Codes bind the counterpart accounts; empty means every non-cash account.
	Codes []string
	// Exclude drops counterpart accounts, used by residual lines.
	Exclude []string
	Window  model.Window
	Flow    Flow
}

// CashFlow attributes cash movements to counterpart accounts. Every eligible
// voucher dated in the window that touches a cash code contributes its
// non-cash lines: Inflow sums their credits, Outflow their debits. Summed over
// a set of lines that binds each counterpart exactly once per flow, inflow
// minus outflow equals the change in the cash balance.
func (a *Aggregator) CashFlow(q CashQuery) decimal.Decimal {
	cash := accounts.Minimal(q.CashCodes)
	if len(cash) == 0 || !q.Flow.Valid() {
		return decimal.Zero
	}
	codes := accounts.Minimal(q.Codes)
	exclude := accounts.Minimal(q.Exclude)

	total := decimal.Zero
	for _, v := range a.vouchers {
		if !q.Window.Contains(v.Date) || !touches(v, cash) {
			continue
		}
		for _, l := range v.Lines {
			if matchAny(l.SubjectCode, cash) {
				continue
			}
			if len(codes) > 0 && !matchAny(l.SubjectCode, codes) {
				continue
			}
			if matchAny(l.SubjectCode, exclude) {
				continue
			}
			if q.Flow == Inflow {
				total = total.Add(l.Credit)
			} else {
				total = total.Add(l.Debit)
			}
		}
	}
	return total
}

func touches(v model.Voucher, codes []string) bool {
	for _, l := range v.Lines {
		if matchAny(l.SubjectCode, codes) {
			return true
		}
	}
	return false
}
