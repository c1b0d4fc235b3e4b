package ledger

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/statements/internal/accounts"
	"github.com/cleared-dev/statements/internal/aggregate"
	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/template"
)

func init() {
	color.NoColor = true
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !dec(want).Equal(got) {
		assert.Fail(t, fmt.Sprintf("want %s, got %s", want, got), msgAndArgs...)
	}
}

func line(code, summary, debit, credit string) model.VoucherLine {
	l := model.VoucherLine{SubjectCode: code, Summary: summary}
	if debit != "" {
		l.Debit = dec(debit)
	}
	if credit != "" {
		l.Credit = dec(credit)
	}
	return l
}

func book(initial map[string]string) (*accounts.Service, *aggregate.Aggregator) {
	chart := accounts.DefaultChart()
	for i := range chart {
		if v, ok := initial[chart[i].Code]; ok {
			chart[i].InitialBalance = dec(v)
		}
	}
	ok := model.StatusApproved
	vouchers := []model.Voucher{
		{ID: "2025-01-001", Date: date(2025, 1, 10), Status: ok, Lines: []model.VoucherLine{
			line("1002", "Sale", "1130", ""), line("6001", "Sale", "", "1000"), line("222101", "Output VAT", "", "130"),
		}},
		{ID: "2025-02-001", Date: date(2025, 2, 5), Status: ok, Lines: []model.VoucherLine{
			line("6602", "Office rent", "300", ""), line("1001", "Office rent", "", "300"),
		}},
		{ID: "2025-03-001", Date: date(2025, 3, 15), Status: ok, Lines: []model.VoucherLine{
			line("1002", "Sale", "500", ""), line("6001", "Sale", "", "500"),
		}},
		{ID: "2025-03-002", Date: date(2025, 3, 20), Status: ok, Lines: []model.VoucherLine{
			line("222101", "VAT paid", "130", ""), line("1002", "VAT paid", "", "130"),
		}},
		{ID: "2025-03-003", Date: date(2025, 3, 21), Status: model.StatusVoid, Lines: []model.VoucherLine{
			line("222101", "Duplicate", "130", ""), line("1002", "Duplicate", "", "130"),
		}},
	}
	svc := accounts.NewService(chart)
	return svc, aggregate.New(svc, vouchers, aggregate.Options{})
}

var opening = map[string]string{"1001": "1000", "1002": "5000", "4001": "6000"}

func row(t *testing.T, s *Summary, code string) SummaryRow {
	t.Helper()
	for _, r := range s.Rows {
		if r.Account.Code == code {
			return r
		}
	}
	require.Failf(t, "missing row", "code %s", code)
	return SummaryRow{}
}

func TestSummarize(t *testing.T) {
	chart, agg := book(opening)
	s := Summarize(agg, chart, model.Month(2025, time.March), date(2025, 1, 1), 1)

	assert.Equal(t, "General Ledger", s.Title)
	st := template.GeneralLedger(chart, 1)
	require.Len(t, s.Rows, len(st.Lines))
	for i, l := range st.Lines {
		assert.Equal(t, l.Codes[0], s.Rows[i].Account.Code, "row %d", l.Row)
	}

	bank := row(t, s, "1002")
	assertDec(t, "6130", bank.Opening)
	assertDec(t, "500", bank.PeriodDebit)
	assertDec(t, "130", bank.PeriodCredit)
	assertDec(t, "1630", bank.YearDebit)
	assertDec(t, "130", bank.YearCredit)
	assertDec(t, "6500", bank.Closing)

	taxes := row(t, s, "2221")
	assertDec(t, "130", taxes.Opening)
	assertDec(t, "130", taxes.PeriodDebit)
	assertDec(t, "0", taxes.Closing)

	assertDec(t, "7130", s.OpeningDebit)
	assertDec(t, "7130", s.OpeningCredit)
	assertDec(t, "630", s.PeriodDebit)
	assertDec(t, "630", s.PeriodCredit)
	assertDec(t, "7500", s.ClosingDebit)
	assertDec(t, "7500", s.ClosingCredit)
	assert.Empty(t, s.Discrepancies)
}

func TestSummarize_Unbalanced(t *testing.T) {
	initial := map[string]string{"1221": "25"}
	for k, v := range opening {
		initial[k] = v
	}
	chart, agg := book(initial)
	s := Summarize(agg, chart, model.Month(2025, time.March), date(2025, 1, 1), 1)

	require.Len(t, s.Discrepancies, 2)
	assert.Equal(t, ColumnOpening, s.Discrepancies[0].Column)
	assert.Equal(t, ColumnClosing, s.Discrepancies[1].Column)
	assertDec(t, "25", s.Discrepancies[0].Diff)
}

func TestSummarize_SubLevel(t *testing.T) {
	chart, agg := book(opening)
	s := Summarize(agg, chart, model.Month(2025, time.January), date(2025, 1, 1), 2)

	require.Len(t, s.Rows, 3)
	vat := row(t, s, "222101")
	assertDec(t, "130", vat.PeriodCredit)
	assertDec(t, "130", vat.Closing)
	// Level 2 does not cover every posting; no trial balance.
	assert.Empty(t, s.Discrepancies)
}

func TestDetail(t *testing.T) {
	chart, agg := book(opening)
	d, err := Detail(agg, chart, "2221", model.Window{Start: date(2025, 1, 1), End: date(2025, 3, 31)})
	require.NoError(t, err)

	assertDec(t, "0", d.Opening)
	require.Len(t, d.Rows, 2)
	assert.Equal(t, "2025-01-001", d.Rows[0].VoucherID)
	assert.Equal(t, "222101", d.Rows[0].Line.SubjectCode)
	assertDec(t, "130", d.Rows[0].Balance)
	assertDec(t, "0", d.Rows[1].Balance)
	assertDec(t, "130", d.Debit)
	assertDec(t, "130", d.Credit)
	assertDec(t, "0", d.Closing)
}

func TestDetail_RunningBalance(t *testing.T) {
	chart, agg := book(opening)
	d, err := Detail(agg, chart, "1002", model.Window{Start: date(2025, 3, 1), End: date(2025, 3, 31)})
	require.NoError(t, err)

	assertDec(t, "6130", d.Opening)
	require.Len(t, d.Rows, 2)
	assertDec(t, "6630", d.Rows[0].Balance)
	assertDec(t, "6500", d.Rows[1].Balance)
	assertDec(t, "6500", d.Closing)
	assert.True(t, agg.Balance([]string{"1002"}, date(2025, 3, 31), model.Debit).Equal(d.Closing))
}

func TestDetail_UnknownAccount(t *testing.T) {
	chart, agg := book(opening)
	_, err := Detail(agg, chart, "9999", model.Window{})
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestWriteSummary(t *testing.T) {
	chart, agg := book(map[string]string{"1001": "25"})
	s := Summarize(agg, chart, model.Month(2025, time.March), date(2025, 1, 1), 1)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s))
	out := buf.String()
	assert.Contains(t, out, "General Ledger (level 1)\nPeriod: 2025-03-01..2025-03-31\n")
	assert.Contains(t, out, "1002      Bank deposits")
	assert.Contains(t, out, "Discrepancies:\n  debits = credits [opening]: 1430.00 vs 1405.00 (diff 25.00)\n")
}

func TestWriteDetail(t *testing.T) {
	chart, agg := book(opening)
	d, err := Detail(agg, chart, "1002", model.Month(2025, time.March))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDetail(&buf, d))
	out := buf.String()
	assert.Contains(t, out, "1002 Bank deposits (debit)\n")
	assert.Contains(t, out, "2025-03-20  2025-03-002  1002")
	assert.Contains(t, out, "VAT paid")
	assert.NotContains(t, out, "Duplicate")
}
