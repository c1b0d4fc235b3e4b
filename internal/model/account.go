package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Direction is the natural balance side of an account.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// Opposite returns the other side.
func (d Direction) Opposite() Direction {
	if d == Credit {
		return Debit
	}
	return Credit
}

// Valid reports whether d is one of the two known sides.
func (d Direction) Valid() bool {
	return d == Debit || d == Credit
}

// Class groups accounts by the first digit of their code.
type Class string

const (
	ClassAsset     Class = "asset"
	ClassLiability Class = "liability"
	ClassCommon    Class = "common"
	ClassEquity    Class = "equity"
	ClassCost      Class = "cost"
	ClassProfit    Class = "profit_and_loss"
	ClassUnknown   Class = "unknown"
)

// Account is one chart-of-accounts entry (a "subject").
// Codes are hierarchical: "2221" is the parent of "222101".
type Account struct {
	Code           string
	Name           string
	Direction      Direction
	Level          int
	InitialBalance decimal.Decimal // on the account's natural side
}

// Class derives the account class from the code's first digit.
func (a Account) Class() Class {
	if a.Code == "" {
		return ClassUnknown
	}
	switch a.Code[0] {
	case '1':
		return ClassAsset
	case '2':
		return ClassLiability
	case '3':
		return ClassCommon
	case '4':
		return ClassEquity
	case '5':
		return ClassCost
	case '6':
		return ClassProfit
	}
	return ClassUnknown
}

// SignedInitial returns the opening balance debit-positive.
func (a Account) SignedInitial() decimal.Decimal {
	if a.Direction == Credit {
		return a.InitialBalance.Neg()
	}
	return a.InitialBalance
}

// IsDescendantOf reports whether a sits strictly below code in the hierarchy.
func (a Account) IsDescendantOf(code string) bool {
	return len(a.Code) > len(code) && strings.HasPrefix(a.Code, code)
}

// Under reports whether code equals ancestor or lies beneath it.
func Under(code, ancestor string) bool {
	return ancestor != "" && strings.HasPrefix(code, ancestor)
}
