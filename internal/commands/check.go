package commands

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/statements/internal/accounts"
	"github.com/cleared-dev/statements/internal/config"
	"github.com/cleared-dev/statements/internal/id"
	"github.com/cleared-dev/statements/internal/journal"
	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/report"
	"github.com/cleared-dev/statements/internal/store"
	"github.com/cleared-dev/statements/internal/template"
)

func newCheckCommand(root *rootOptions) *cobra.Command {
	var book string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the journal, the chart of accounts and the statement templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, root)
			if err != nil {
				return err
			}
			bookID, err := p.bookID(book)
			if err != nil {
				return err
			}

			src, release, err := p.openSource(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			snap, err := store.Load(cmd.Context(), src, bookID, model.Window{})
			if err != nil {
				return err
			}
			chart := accounts.NewService(snap.Accounts)
			out := cmd.OutOrStdout()

			problems := checkJournal(out, snap.Vouchers, chart)
			for _, is := range snap.Issues {
				fmt.Fprintf(out, "issue: %s\n", is)
			}

			for _, kind := range []template.Kind{template.KindBalanceSheet, template.KindIncomeStatement, template.KindCashFlow} {
				n, err := checkTemplate(out, p, kind, chart)
				if err != nil {
					return err
				}
				problems += n
			}

			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			fmt.Fprintf(out, "Book %s: %d vouchers, %d accounts, no problems found\n",
				bookID, len(snap.Vouchers), len(snap.Accounts))
			return nil
		},
	}

	cmd.Flags().StringVar(&book, "book", "", "book id (defaults to book.id in "+config.FileName+")")

	return cmd
}

// checkJournal validates every journal month and prints each violation.
// Vouchers are grouped by the month their ID names. Returns the number of
// violations.
func checkJournal(out io.Writer, vouchers []model.Voucher, chart journal.ChartChecker) int {
	byMonth := make(map[[2]int][]model.Voucher)
	for _, v := range vouchers {
		key := [2]int{v.Date.Year(), int(v.Date.Month())}
		if y, m, _, err := id.ParseVoucherID(v.ID); err == nil {
			key = [2]int{y, m}
		}
		byMonth[key] = append(byMonth[key], v)
	}
	months := make([][2]int, 0, len(byMonth))
	for k := range byMonth {
		months = append(months, k)
	}
	slices.SortFunc(months, func(a, b [2]int) int {
		if a[0] != b[0] {
			return a[0] - b[0]
		}
		return a[1] - b[1]
	})

	n := 0
	for _, m := range months {
		for _, ve := range journal.ValidateVouchers(byMonth[m], chart, m[0], m[1]) {
			fmt.Fprintf(out, "journal %04d-%02d: %s\n", m[0], m[1], ve.Error())
			n++
		}
	}
	return n
}

// checkTemplate compiles the template used for kind and prints compile errors
// as problems, and warnings and coverage gaps as notes. Returns the number of
// problems.
func checkTemplate(out io.Writer, p *project, kind template.Kind, chart *accounts.Service) (int, error) {
	st, err := p.statement(kind, "")
	if err != nil {
		return 0, err
	}
	if st == nil {
		builtin, _ := template.Builtin(kind, p.cfg.Reporting.CashCodes)
		st = &builtin
	}
	if st.Kind == template.KindCashFlow && len(st.CashCodes) == 0 {
		st.CashCodes = p.cfg.Reporting.CashCodes
	}

	compiled, err := template.Compile(*st, template.Options{Strict: p.cfg.Reporting.StrictTemplates})
	if err != nil {
		fmt.Fprintf(out, "template %s: %v\n", kind, err)
		return 1, nil
	}
	for _, w := range compiled.Warnings {
		fmt.Fprintf(out, "template %s: warning: %s\n", kind, w)
	}
	for _, is := range report.Coverage(compiled.Statement, chart) {
		fmt.Fprintf(out, "template %s: %s\n", kind, is)
	}
	return 0, nil
}
