package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/id"
	"github.com/cleared-dev/statements/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	VoucherID   string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.VoucherID, e.Description)
}

// ChartChecker answers chart-of-accounts questions during validation.
type ChartChecker interface {
	Exists(code string) bool
	IsLeaf(code string) bool
}

// ValidateVouchers enforces 7 invariants on the vouchers of one month:
//
//  1. debits equal credits per voucher
//  2. exactly one of debit/credit per line
//  3. subject code is a known leaf account
//  4. date within the month
//  5. voucher sequence numbers are contiguous 1..N
//  6. at most 2 decimal places
//  7. known status
func ValidateVouchers(vouchers []model.Voucher, chart ChartChecker, year, month int) []ValidationError {
	var errs []ValidationError

	for _, v := range vouchers {
		debit, credit := v.Totals()
		if !debit.Equal(credit) {
			errs = append(errs, ValidationError{
				Invariant:   1,
				VoucherID:   v.ID,
				Description: fmt.Sprintf("debits (%s) != credits (%s)", debit.StringFixed(2), credit.StringFixed(2)),
			})
		}

		for i, l := range v.Lines {
			lineID := id.FormatLineID(v.ID, i)

			if l.Debit.IsZero() == l.Credit.IsZero() {
				errs = append(errs, ValidationError{
					Invariant:   2,
					VoucherID:   lineID,
					Description: "line must have exactly one of debit or credit",
				})
			}

			switch {
			case !chart.Exists(l.SubjectCode):
				errs = append(errs, ValidationError{
					Invariant:   3,
					VoucherID:   lineID,
					Description: fmt.Sprintf("unknown account %q", l.SubjectCode),
				})
			case !chart.IsLeaf(l.SubjectCode):
				errs = append(errs, ValidationError{
					Invariant:   3,
					VoucherID:   lineID,
					Description: fmt.Sprintf("account %s has sub-accounts; post to a leaf", l.SubjectCode),
				})
			}

			hundred := decimal.NewFromInt(100)
			for side, amt := range map[string]decimal.Decimal{"debit": l.Debit, "credit": l.Credit} {
				if !amt.Mul(hundred).Equal(amt.Mul(hundred).Floor()) {
					errs = append(errs, ValidationError{
						Invariant:   6,
						VoucherID:   lineID,
						Description: fmt.Sprintf("%s %s has more than 2 decimal places", side, amt),
					})
				}
			}
		}

		if v.Date.Year() != year || int(v.Date.Month()) != month {
			errs = append(errs, ValidationError{
				Invariant:   4,
				VoucherID:   v.ID,
				Description: fmt.Sprintf("date %s not in %04d-%02d", v.Date.Format(model.DateFormat), year, month),
			})
		}

		if !v.Status.Valid() {
			errs = append(errs, ValidationError{
				Invariant:   7,
				VoucherID:   v.ID,
				Description: fmt.Sprintf("unknown status %q", v.Status),
			})
		}
	}

	seqSeen := make(map[int]bool)
	for _, v := range vouchers {
		_, _, seq, err := id.ParseVoucherID(v.ID)
		if err != nil {
			errs = append(errs, ValidationError{
				Invariant:   5,
				VoucherID:   v.ID,
				Description: fmt.Sprintf("invalid voucher ID: %v", err),
			})
			continue
		}
		if seqSeen[seq] {
			errs = append(errs, ValidationError{
				Invariant:   5,
				VoucherID:   v.ID,
				Description: fmt.Sprintf("duplicate sequence %d", seq),
			})
		}
		seqSeen[seq] = true
	}
	for i := 1; i <= len(seqSeen); i++ {
		if !seqSeen[i] {
			errs = append(errs, ValidationError{
				Invariant:   5,
				VoucherID:   fmt.Sprintf("seq %d", i),
				Description: fmt.Sprintf("missing sequence %d in 1..%d", i, len(seqSeen)),
			})
		}
	}

	return errs
}
