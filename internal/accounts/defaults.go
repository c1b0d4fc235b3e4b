package accounts

import "github.com/cleared-dev/statements/internal/model"

// DefaultChart returns the default chart of accounts, a working subset of the
// general enterprise numbering (1 assets, 2 liabilities, 4 equity, 5 cost,
// 6 profit and loss).
func DefaultChart() []model.Account {
	return []model.Account{
		// Assets.
		{Code: "1001", Name: "Cash on hand", Direction: model.Debit, Level: 1},
		{Code: "1002", Name: "Bank deposits", Direction: model.Debit, Level: 1},
		{Code: "1012", Name: "Other monetary funds", Direction: model.Debit, Level: 1},
		{Code: "1101", Name: "Trading financial assets", Direction: model.Debit, Level: 1},
		{Code: "1121", Name: "Notes receivable", Direction: model.Debit, Level: 1},
		{Code: "1122", Name: "Accounts receivable", Direction: model.Debit, Level: 1},
		{Code: "1123", Name: "Prepayments", Direction: model.Debit, Level: 1},
		{Code: "1131", Name: "Dividends receivable", Direction: model.Debit, Level: 1},
		{Code: "1132", Name: "Interest receivable", Direction: model.Debit, Level: 1},
		{Code: "1221", Name: "Other receivables", Direction: model.Debit, Level: 1},
		{Code: "1231", Name: "Bad debt allowance", Direction: model.Credit, Level: 1},
		{Code: "1403", Name: "Raw materials", Direction: model.Debit, Level: 1},
		{Code: "1405", Name: "Goods in stock", Direction: model.Debit, Level: 1},
		{Code: "1511", Name: "Long-term equity investments", Direction: model.Debit, Level: 1},
		{Code: "1601", Name: "Fixed assets", Direction: model.Debit, Level: 1},
		{Code: "1602", Name: "Accumulated depreciation", Direction: model.Credit, Level: 1},
		{Code: "1604", Name: "Construction in progress", Direction: model.Debit, Level: 1},
		{Code: "1606", Name: "Fixed assets clearance", Direction: model.Debit, Level: 1},
		{Code: "1701", Name: "Intangible assets", Direction: model.Debit, Level: 1},
		{Code: "1702", Name: "Accumulated amortization", Direction: model.Credit, Level: 1},
		{Code: "1801", Name: "Long-term prepaid expenses", Direction: model.Debit, Level: 1},
		{Code: "1811", Name: "Deferred tax assets", Direction: model.Debit, Level: 1},

		// Liabilities.
		{Code: "2001", Name: "Short-term borrowings", Direction: model.Credit, Level: 1},
		{Code: "2201", Name: "Notes payable", Direction: model.Credit, Level: 1},
		{Code: "2202", Name: "Accounts payable", Direction: model.Credit, Level: 1},
		{Code: "2203", Name: "Advances from customers", Direction: model.Credit, Level: 1},
		{Code: "2211", Name: "Payroll payable", Direction: model.Credit, Level: 1},
		{Code: "2221", Name: "Taxes payable", Direction: model.Credit, Level: 1},
		{Code: "222101", Name: "VAT payable", Direction: model.Credit, Level: 2},
		{Code: "222102", Name: "Corporate income tax payable", Direction: model.Credit, Level: 2},
		{Code: "222103", Name: "Urban construction tax payable", Direction: model.Credit, Level: 2},
		{Code: "2231", Name: "Interest payable", Direction: model.Credit, Level: 1},
		{Code: "2232", Name: "Dividends payable", Direction: model.Credit, Level: 1},
		{Code: "2241", Name: "Other payables", Direction: model.Credit, Level: 1},
		{Code: "2501", Name: "Long-term borrowings", Direction: model.Credit, Level: 1},
		{Code: "2701", Name: "Long-term payables", Direction: model.Credit, Level: 1},
		{Code: "2901", Name: "Deferred tax liabilities", Direction: model.Credit, Level: 1},

		// Equity.
		{Code: "4001", Name: "Paid-in capital", Direction: model.Credit, Level: 1},
		{Code: "4002", Name: "Capital reserve", Direction: model.Credit, Level: 1},
		{Code: "4101", Name: "Surplus reserve", Direction: model.Credit, Level: 1},
		{Code: "4103", Name: "Current-year profit", Direction: model.Credit, Level: 1},
		{Code: "4104", Name: "Profit distribution", Direction: model.Credit, Level: 1},

		// Cost.
		{Code: "5001", Name: "Production cost", Direction: model.Debit, Level: 1},
		{Code: "5101", Name: "Manufacturing overhead", Direction: model.Debit, Level: 1},

		// Profit and loss.
		{Code: "6001", Name: "Main business revenue", Direction: model.Credit, Level: 1},
		{Code: "6051", Name: "Other business revenue", Direction: model.Credit, Level: 1},
		{Code: "6101", Name: "Gains from changes in fair value", Direction: model.Credit, Level: 1},
		{Code: "6111", Name: "Investment income", Direction: model.Credit, Level: 1},
		{Code: "6301", Name: "Non-operating income", Direction: model.Credit, Level: 1},
		{Code: "6401", Name: "Main business cost", Direction: model.Debit, Level: 1},
		{Code: "6402", Name: "Other business cost", Direction: model.Debit, Level: 1},
		{Code: "6403", Name: "Taxes and surcharges", Direction: model.Debit, Level: 1},
		{Code: "6601", Name: "Selling expenses", Direction: model.Debit, Level: 1},
		{Code: "6602", Name: "Administrative expenses", Direction: model.Debit, Level: 1},
		{Code: "6603", Name: "Finance expenses", Direction: model.Debit, Level: 1},
		{Code: "6701", Name: "Asset impairment losses", Direction: model.Debit, Level: 1},
		{Code: "6711", Name: "Non-operating expenses", Direction: model.Debit, Level: 1},
		{Code: "6801", Name: "Income tax expense", Direction: model.Debit, Level: 1},
	}
}

// ProfitAccount is the current-year profit account that period-end closing
// vouchers post to.
const ProfitAccount = "4103"

// CashAccounts are the codes whose movement the cash flow statement explains.
var CashAccounts = []string{"1001", "1002", "1012"}
