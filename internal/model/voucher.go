package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherStatus represents the lifecycle state of a voucher.
type VoucherStatus string

const (
	StatusDraft    VoucherStatus = "draft"
	StatusApproved VoucherStatus = "approved"
	StatusVoid     VoucherStatus = "void"
)

// Valid reports whether s is a known status.
func (s VoucherStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusVoid:
		return true
	}
	return false
}

// VoucherLine is one debit or credit entry of a voucher.
type VoucherLine struct {
	SubjectCode string
	Summary     string
	Debit       decimal.Decimal // zero if credit side
	Credit      decimal.Decimal // zero if debit side
}

// Net returns debit minus credit.
func (l VoucherLine) Net() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// Voucher is a posted double-entry transaction record.
type Voucher struct {
	ID     string // "YYYY-MM-NNN"
	Date   time.Time
	Status VoucherStatus
	Lines  []VoucherLine

	// Issues holds data-quality notes attached when the record was decoded.
	Issues []Issue
}

// Totals returns the summed debit and credit sides.
func (v Voucher) Totals() (debit, credit decimal.Decimal) {
	for _, l := range v.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// Balanced reports whether the debit and credit sides are equal.
func (v Voucher) Balanced() bool {
	d, c := v.Totals()
	return d.Equal(c)
}

// Issue is a non-fatal data-quality concern found while reading records.
type Issue struct {
	Ref    string // voucher id, account code, template row ...
	Field  string
	Value  string
	Reason string
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("%s: %s", i.Ref, i.Reason)
	}
	return fmt.Sprintf("%s %s=%q: %s", i.Ref, i.Field, i.Value, i.Reason)
}
