package ledger

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/money"
)

// WriteSummary renders s as a trial balance table.
func WriteSummary(w io.Writer, s *Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (level %d)\n", s.Title, s.Level)
	fmt.Fprintf(&b, "Period: %s\n\n", s.Window)

	fmt.Fprintf(&b, "%-8s  %-32s  %-6s  %14s  %14s  %14s  %14s  %14s  %14s\n",
		"Code", "Name", "Side", "Opening", "Period Dr", "Period Cr", "Year Dr", "Year Cr", "Closing")
	for _, r := range s.Rows {
		fmt.Fprintf(&b, "%-8s  %-32s  %-6s  %14s  %14s  %14s  %14s  %14s  %14s\n",
			r.Account.Code, r.Account.Name, r.Account.Direction,
			money.FormatOrDash(r.Opening),
			money.FormatOrDash(r.PeriodDebit), money.FormatOrDash(r.PeriodCredit),
			money.FormatOrDash(r.YearDebit), money.FormatOrDash(r.YearCredit),
			money.FormatOrDash(r.Closing))
	}

	fmt.Fprintf(&b, "\nTotals    %14s  %14s\n", "Debit", "Credit")
	for _, t := range []struct {
		name          string
		debit, credit string
	}{
		{"Opening", money.Format(s.OpeningDebit), money.Format(s.OpeningCredit)},
		{"Period", money.Format(s.PeriodDebit), money.Format(s.PeriodCredit)},
		{"Year", money.Format(s.YearDebit), money.Format(s.YearCredit)},
		{"Closing", money.Format(s.ClosingDebit), money.Format(s.ClosingCredit)},
	} {
		fmt.Fprintf(&b, "%-8s  %14s  %14s\n", t.name, t.debit, t.credit)
	}

	if len(s.Discrepancies) > 0 {
		red := color.New(color.FgRed, color.Bold)
		b.WriteString("\nDiscrepancies:\n")
		for _, d := range s.Discrepancies {
			fmt.Fprintf(&b, "  %s\n", red.Sprint(d.String()))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteDetail renders d as a posting list with running balance.
func WriteDetail(w io.Writer, d *AccountDetail) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s)\n", d.Account.Code, d.Account.Name, d.Account.Direction)
	fmt.Fprintf(&b, "Period: %s\n\n", d.Window)

	fmt.Fprintf(&b, "%-10s  %-11s  %-8s  %-32s  %14s  %14s  %14s\n",
		"Date", "Voucher", "Account", "Summary", "Debit", "Credit", "Balance")
	fmt.Fprintf(&b, "%-10s  %-11s  %-8s  %-32s  %14s  %14s  %14s\n",
		"", "", "", "Opening balance", "", "", money.Format(d.Opening))
	for _, r := range d.Rows {
		fmt.Fprintf(&b, "%-10s  %-11s  %-8s  %-32s  %14s  %14s  %14s\n",
			r.Date.Format(model.DateFormat), r.VoucherID, r.Line.SubjectCode, r.Line.Summary,
			money.FormatOrDash(r.Line.Debit), money.FormatOrDash(r.Line.Credit), money.Format(r.Balance))
	}
	fmt.Fprintf(&b, "%-10s  %-11s  %-8s  %-32s  %14s  %14s  %14s\n",
		"", "", "", "Closing balance", money.Format(d.Debit), money.Format(d.Credit), money.Format(d.Closing))

	_, err := io.WriteString(w, b.String())
	return err
}
