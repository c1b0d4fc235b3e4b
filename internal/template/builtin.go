package template

import (
	"github.com/cleared-dev/statements/internal/aggregate"
	"github.com/cleared-dev/statements/internal/model"
)

func header(row int, name string) Line {
	return Line{Row: row, Name: name}
}

func balance(row int, name string, side model.Direction, codes ...string) Line {
	return Line{Row: row, Name: name, Codes: codes, Side: side, Basis: BasisBalance}
}

func movement(row int, name string, side model.Direction, codes ...string) Line {
	return Line{Row: row, Name: name, Codes: codes, Side: side, Basis: BasisMovement}
}

func cash(row int, name string, flow aggregate.Flow, codes ...string) Line {
	return Line{Row: row, Name: name, Codes: codes, Side: model.Debit, Basis: BasisCash, Flow: flow}
}

func residual(row int, name string, flow aggregate.Flow) Line {
	return Line{Row: row, Name: name, Side: model.Debit, Basis: BasisCash, Flow: flow, Residual: true}
}

func total(row int, name, formula string) Line {
	return Line{Row: row, Name: name, Formula: formula, Total: true}
}

// BalanceSheet returns the balance sheet template for the general enterprise
// chart of accounts. Profit-and-loss accounts not yet closed into 4103 are
// reported under undistributed profit so the sheet balances mid-year.
func BalanceSheet() Statement {
	const dr, cr = model.Debit, model.Credit
	return Statement{
		Kind:    KindBalanceSheet,
		Title:   "Balance Sheet",
		Columns: DefaultColumns(KindBalanceSheet),
		Lines: []Line{
			header(1, "Current assets"),
			balance(2, "Cash and cash equivalents", dr, "1001", "1002", "1012"),
			balance(3, "Short-term investments", dr, "1101"),
			balance(4, "Notes receivable", dr, "1121"),
			balance(5, "Accounts receivable", dr, "1122", "1231"),
			balance(6, "Prepayments", dr, "1123"),
			balance(7, "Interest receivable", dr, "1132"),
			balance(8, "Dividends receivable", dr, "1131"),
			balance(9, "Other receivables", dr, "1221"),
			balance(10, "Inventories", dr, "14", "5001", "5101"),
			balance(11, "Other current assets", dr, "1901"),
			total(12, "Total current assets", "sum(2-11)"),
			header(13, "Non-current assets"),
			balance(14, "Long-term equity investments", dr, "1511"),
			balance(15, "Investment property", dr, "1521"),
			balance(16, "Fixed assets", dr, "1601", "1602", "1603"),
			balance(17, "Construction in progress", dr, "1604"),
			balance(18, "Fixed assets pending disposal", dr, "1606"),
			balance(19, "Intangible assets", dr, "1701", "1702", "1703"),
			balance(20, "Long-term prepaid expenses", dr, "1801"),
			balance(21, "Deferred tax assets", dr, "1811"),
			total(22, "Total non-current assets", "sum(14-21)"),
			total(23, "Total assets", "12+22"),
			header(24, "Current liabilities"),
			balance(25, "Short-term borrowings", cr, "2001"),
			balance(26, "Notes payable", cr, "2201"),
			balance(27, "Accounts payable", cr, "2202"),
			balance(28, "Advances from customers", cr, "2203"),
			balance(29, "Employee benefits payable", cr, "2211"),
			balance(30, "Taxes payable", cr, "2221"),
			balance(31, "Interest payable", cr, "2231"),
			balance(32, "Dividends payable", cr, "2232"),
			balance(33, "Other payables", cr, "2241"),
			total(34, "Total current liabilities", "sum(25-33)"),
			header(35, "Non-current liabilities"),
			balance(36, "Long-term borrowings", cr, "2501"),
			balance(37, "Bonds payable", cr, "2502"),
			balance(38, "Long-term payables", cr, "2701"),
			balance(39, "Deferred tax liabilities", cr, "2901"),
			total(40, "Total non-current liabilities", "sum(36-39)"),
			total(41, "Total liabilities", "34+40"),
			header(42, "Owners' equity"),
			balance(43, "Paid-in capital", cr, "4001"),
			balance(44, "Capital reserve", cr, "4002"),
			balance(45, "Surplus reserve", cr, "4101"),
			balance(46, "Undistributed profit", cr, "4103", "4104", "6"),
			total(47, "Total owners' equity", "sum(43-46)"),
			total(48, "Total liabilities and owners' equity", "41+47"),
		},
		Checks: []Check{
			{Name: "assets = liabilities + equity", Row: 23, Against: 48},
		},
	}
}

// IncomeStatement returns the income statement template. Amounts are
// movements with closing transfers into current-year profit excluded.
func IncomeStatement() Statement {
	const dr, cr = model.Debit, model.Credit
	return Statement{
		Kind:           KindIncomeStatement,
		Title:          "Income Statement",
		Columns:        DefaultColumns(KindIncomeStatement),
		ExcludeClosing: true,
		Lines: []Line{
			movement(1, "Operating revenue", cr, "6001", "6051"),
			movement(2, "Operating costs", dr, "6401", "6402"),
			movement(3, "Taxes and surcharges", dr, "6403"),
			movement(4, "Selling expenses", dr, "6601"),
			movement(5, "Administrative expenses", dr, "6602"),
			movement(6, "Financial expenses", dr, "6603"),
			movement(7, "Asset impairment losses", dr, "6701"),
			movement(8, "Fair value gains", cr, "6101"),
			movement(9, "Investment income", cr, "6111"),
			total(10, "Operating profit", "1-2-3-4-5-6-7+8+9"),
			movement(11, "Non-operating income", cr, "6301"),
			movement(12, "Non-operating expenses", dr, "6711"),
			total(13, "Total profit", "10+11-12"),
			movement(14, "Income tax expense", dr, "6801"),
			total(15, "Net profit", "13-14"),
		},
	}
}

// CashFlow returns the direct-method cash flow statement. Each line
// attributes cash vouchers to their counterpart accounts; residual lines
// collect counterparts no other line of the same flow binds, so the net
// increase always reconciles with the change in cashCodes.
func CashFlow(cashCodes []string) Statement {
	const in, out = aggregate.Inflow, aggregate.Outflow
	return Statement{
		Kind:      KindCashFlow,
		Title:     "Cash Flow Statement",
		Columns:   DefaultColumns(KindCashFlow),
		CashCodes: cashCodes,
		Lines: []Line{
			header(1, "Operating activities"),
			cash(2, "Cash received from sales of goods and services", in, "6001", "6051", "1121", "1122", "2203", "2221"),
			residual(3, "Other cash received from operating activities", in),
			total(4, "Subtotal of operating cash inflows", "sum(2-3)"),
			cash(5, "Cash paid for goods and services", out, "14", "5001", "5101", "6401", "6402", "2201", "2202", "1123"),
			cash(6, "Cash paid to and on behalf of employees", out, "2211"),
			cash(7, "Taxes paid", out, "2221", "6403", "6801"),
			residual(8, "Other cash paid for operating activities", out),
			total(9, "Subtotal of operating cash outflows", "sum(5-8)"),
			total(10, "Net cash from operating activities", "4-9"),
			header(11, "Investing activities"),
			cash(12, "Cash received from disposal of investments", in, "1101", "1501", "1503", "1511"),
			cash(13, "Cash received from investment income", in, "6111", "1131", "1132"),
			cash(14, "Cash received from disposal of long-term assets", in, "1601", "1606", "1701"),
			total(15, "Subtotal of investing cash inflows", "sum(12-14)"),
			cash(16, "Cash paid for long-term assets", out, "1601", "1604", "1605", "1701", "1801"),
			cash(17, "Cash paid for investments", out, "1101", "1501", "1503", "1511"),
			total(18, "Subtotal of investing cash outflows", "sum(16-17)"),
			total(19, "Net cash from investing activities", "15-18"),
			header(20, "Financing activities"),
			cash(21, "Cash received from capital contributions", in, "4001", "4002"),
			cash(22, "Cash received from borrowings", in, "2001", "2501"),
			total(23, "Subtotal of financing cash inflows", "sum(21-22)"),
			cash(24, "Cash repaid on borrowings", out, "2001", "2501"),
			cash(25, "Cash paid for dividends, profits and interest", out, "2231", "2232", "4104", "6603"),
			total(26, "Subtotal of financing cash outflows", "sum(24-25)"),
			total(27, "Net cash from financing activities", "23-26"),
			total(28, "Net increase in cash and cash equivalents", "10+19+27"),
			{Row: 29, Name: "Cash and cash equivalents at beginning of period", Codes: cashCodes, Side: model.Debit, Basis: BasisOpening},
			total(30, "Cash and cash equivalents at end of period", "28+29"),
		},
		Checks: []Check{
			{
				Name: "net increase + opening = closing cash",
				Row:  30,
				Independent: &Line{
					Name:  "Closing cash balance",
					Codes: cashCodes,
					Side:  model.Debit,
					Basis: BasisBalance,
				},
			},
		},
	}
}

// Chart is the part of the chart of accounts GeneralLedger reads.
type Chart interface {
	AtLevel(level int) []model.Account
}

// GeneralLedger returns one balance line per account at level, each on the
// account's natural side.
func GeneralLedger(chart Chart, level int) Statement {
	st := Statement{
		Kind:    KindGeneralLedger,
		Title:   "General Ledger",
		Columns: DefaultColumns(KindGeneralLedger),
	}
	for i, a := range chart.AtLevel(level) {
		st.Lines = append(st.Lines, balance(i+1, a.Code+" "+a.Name, a.Direction, a.Code))
	}
	return st
}

// Builtin returns the built-in template for kind.
func Builtin(kind Kind, cashCodes []string) (Statement, bool) {
	switch kind {
	case KindBalanceSheet:
		return BalanceSheet(), true
	case KindIncomeStatement:
		return IncomeStatement(), true
	case KindCashFlow:
		return CashFlow(cashCodes), true
	}
	return Statement{}, false
}
