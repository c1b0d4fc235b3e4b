package journal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/statements/internal/model"
)

// mockChart implements ChartChecker for testing. Codes ending in "*" are
// registered as parents.
type mockChart struct {
	codes   map[string]bool
	parents map[string]bool
}

func (m *mockChart) Exists(code string) bool { return m.codes[code] }
func (m *mockChart) IsLeaf(code string) bool { return m.codes[code] && !m.parents[code] }

func newMockChart(codes ...string) *mockChart {
	m := &mockChart{codes: make(map[string]bool), parents: make(map[string]bool)}
	for _, c := range codes {
		if n := len(c); n > 0 && c[n-1] == '*' {
			c = c[:n-1]
			m.parents[c] = true
		}
		m.codes[c] = true
	}
	return m
}

var defaultChart = newMockChart("1001", "1002", "1122", "2221*", "222101", "6001", "6602")

func balancedVoucher(seq int, debitCode, creditCode string, amount string) model.Voucher {
	return model.Voucher{
		ID:     fmt.Sprintf("2025-01-%03d", seq),
		Date:   date(2025, 1, 15),
		Status: model.StatusApproved,
		Lines: []model.VoucherLine{
			{SubjectCode: debitCode, Debit: dec(amount)},
			{SubjectCode: creditCode, Credit: dec(amount)},
		},
	}
}

func invariants(errs []ValidationError) []int {
	var result []int
	for _, e := range errs {
		result = append(result, e.Invariant)
	}
	return result
}

func TestValidate_Balanced(t *testing.T) {
	vouchers := []model.Voucher{
		balancedVoucher(1, "6602", "1002", "100.00"),
		balancedVoucher(2, "1002", "6001", "250.00"),
	}
	assert.Empty(t, ValidateVouchers(vouchers, defaultChart, 2025, 1))
}

func TestValidate_Invariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *model.Voucher)
		want   int
	}{
		{"unbalanced", func(v *model.Voucher) { v.Lines[1].Credit = dec("99.00") }, 1},
		{"both sides", func(v *model.Voucher) { v.Lines[0].Credit = dec("100.00"); v.Lines[1].Debit = dec("100.00") }, 2},
		{"unknown account", func(v *model.Voucher) { v.Lines[0].SubjectCode = "9999" }, 3},
		{"parent account", func(v *model.Voucher) { v.Lines[0].SubjectCode = "2221" }, 3},
		{"wrong month", func(v *model.Voucher) { v.Date = date(2025, 2, 1) }, 4},
		{"three decimals", func(v *model.Voucher) { v.Lines[0].Debit = dec("1.005"); v.Lines[1].Credit = dec("1.005") }, 6},
		{"unknown status", func(v *model.Voucher) { v.Status = "posted" }, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := balancedVoucher(1, "6602", "1002", "100.00")
			tt.mutate(&v)
			errs := ValidateVouchers([]model.Voucher{v}, defaultChart, 2025, 1)
			require.NotEmpty(t, errs)
			assert.Contains(t, invariants(errs), tt.want)
		})
	}
}

func TestValidate_Invariant5_Gap(t *testing.T) {
	vouchers := []model.Voucher{
		balancedVoucher(1, "6602", "1002", "1.00"),
		balancedVoucher(3, "6602", "1002", "1.00"),
	}
	errs := ValidateVouchers(vouchers, defaultChart, 2025, 1)
	require.Len(t, errs, 1)
	assert.Equal(t, 5, errs[0].Invariant)
	assert.Contains(t, errs[0].Error(), "missing sequence 2")
}

func TestValidate_Invariant5_Duplicate(t *testing.T) {
	vouchers := []model.Voucher{
		balancedVoucher(1, "6602", "1002", "1.00"),
		balancedVoucher(1, "6602", "1002", "2.00"),
	}
	errs := ValidateVouchers(vouchers, defaultChart, 2025, 1)
	assert.Contains(t, invariants(errs), 5)
}

func TestValidationError_Format(t *testing.T) {
	e := ValidationError{Invariant: 1, VoucherID: "2025-01-001", Description: "debits (1.00) != credits (2.00)"}
	assert.Equal(t, "invariant 1 [2025-01-001]: debits (1.00) != credits (2.00)", e.Error())
}
