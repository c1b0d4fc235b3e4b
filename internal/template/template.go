// Package template defines report templates: ordered, row-numbered line
// definitions bound either to account codes or to formulas over other rows.
package template

import (
	"github.com/cleared-dev/statements/internal/aggregate"
	"github.com/cleared-dev/statements/internal/model"
)

// Kind identifies a statement type.
type Kind string

const (
	KindBalanceSheet    Kind = "balance_sheet"
	KindIncomeStatement Kind = "income_statement"
	KindCashFlow        Kind = "cash_flow"
	KindGeneralLedger   Kind = "general_ledger"
)

// Basis selects what a leaf line aggregates.
type Basis string

const (
	// BasisBalance is the cumulative balance at the end of the column window.
	BasisBalance Basis = "balance"
	// BasisOpening is the cumulative balance the day before the column window.
	BasisOpening Basis = "opening"
	// BasisMovement is voucher movement inside the column window.
	BasisMovement Basis = "movement"
	// BasisCash is cash flow attributed to counterpart accounts.
	BasisCash Basis = "cash"
)

// Column names a computed column.
type Column string

const (
	ColumnEndingBalance   Column = "ending_balance"
	ColumnBeginningOfYear Column = "beginning_of_year"
	ColumnCurrentPeriod   Column = "current_period"
	ColumnYearToDate      Column = "year_to_date"
	ColumnPriorYear       Column = "prior_year"
)

// Line is one row of a statement. A line with Codes is a leaf line, a line
// with a Formula is derived, and a line with neither is a header.
type Line struct {
	Row     int             `yaml:"row"`
	Name    string          `yaml:"name"`
	Codes   []string        `yaml:"codes,omitempty"`
	Formula string          `yaml:"formula,omitempty"`
	Side    model.Direction `yaml:"side,omitempty"`
	Basis   Basis           `yaml:"basis,omitempty"`

	// Cash lines only.
	Flow     aggregate.Flow `yaml:"flow,omitempty"`
	Residual bool           `yaml:"residual,omitempty"`

	Total bool `yaml:"total,omitempty"`
}

// IsHeader reports whether the line is informational only.
func (l Line) IsHeader() bool {
	return len(l.Codes) == 0 && l.Formula == "" && !(l.Basis == BasisCash && l.Residual)
}

// IsFormula reports whether the line is derived from other rows.
func (l Line) IsFormula() bool {
	return l.Formula != ""
}

// Check compares two totals that must agree. Row is compared against either
// another row or an independently aggregated line.
type Check struct {
	Name        string `yaml:"name"`
	Row         int    `yaml:"row"`
	Against     int    `yaml:"against,omitempty"`
	Independent *Line  `yaml:"independent,omitempty"`
}

// Statement is a complete report template.
type Statement struct {
	Kind           Kind     `yaml:"kind"`
	Title          string   `yaml:"title"`
	Columns        []Column `yaml:"columns"`
	ExcludeClosing bool     `yaml:"exclude_closing,omitempty"`
	// CashCodes are the accounts cash lines treat as cash.
	CashCodes []string `yaml:"cash_codes,omitempty"`
	Lines     []Line   `yaml:"lines"`
	Checks    []Check  `yaml:"checks,omitempty"`
}

// Line returns the line with the given row number.
func (s Statement) Line(row int) (Line, bool) {
	for _, l := range s.Lines {
		if l.Row == row {
			return l, true
		}
	}
	return Line{}, false
}

// DefaultColumns returns the columns a statement kind shows by default.
func DefaultColumns(kind Kind) []Column {
	switch kind {
	case KindBalanceSheet:
		return []Column{ColumnEndingBalance, ColumnBeginningOfYear}
	case KindIncomeStatement:
		return []Column{ColumnCurrentPeriod, ColumnYearToDate, ColumnPriorYear}
	case KindCashFlow:
		return []Column{ColumnCurrentPeriod, ColumnYearToDate}
	case KindGeneralLedger:
		return []Column{ColumnEndingBalance}
	}
	return nil
}
