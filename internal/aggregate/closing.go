package aggregate

import "github.com/cleared-dev/statements/internal/model"

// PostsTo matches any voucher with a line on code or beneath it.
func PostsTo(code string) func(model.Voucher) bool {
	return func(v model.Voucher) bool {
		for _, l := range v.Lines {
			if model.Under(l.SubjectCode, code) {
				return true
			}
		}
		return false
	}
}

// ClosingTransfer matches vouchers that move profit-and-loss balances into
// profitCode: at least one line on profitCode and every other line on a
// profit-and-loss account. A profit distribution (profitCode to retained
// earnings) is not a closing transfer.
func ClosingTransfer(profitCode string) func(model.Voucher) bool {
	return func(v model.Voucher) bool {
		hitsProfit := false
		for _, l := range v.Lines {
			switch {
			case model.Under(l.SubjectCode, profitCode):
				hitsProfit = true
			case (model.Account{Code: l.SubjectCode}).Class() != model.ClassProfit:
				return false
			}
		}
		return hitsProfit
	}
}
