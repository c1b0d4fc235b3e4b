package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/statements/internal/aggregate"
	"github.com/cleared-dev/statements/internal/config"
	"github.com/cleared-dev/statements/internal/report"
	"github.com/cleared-dev/statements/internal/runlog"
	"github.com/cleared-dev/statements/internal/template"
)

// statementKinds maps command arguments to statement kinds.
var statementKinds = map[string]template.Kind{
	"balance-sheet":    template.KindBalanceSheet,
	"income-statement": template.KindIncomeStatement,
	"cash-flow":        template.KindCashFlow,
}

type reportOptions struct {
	period        periodFlags
	book          string
	includeDrafts bool
	template      string
	format        string
	output        string
	strict        bool
}

func newReportCommand(root *rootOptions) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:       "report <balance-sheet|income-statement|cash-flow>",
		Short:     "Generate a financial statement",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"balance-sheet", "income-statement", "cash-flow"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := statementKinds[args[0]]
			if !ok {
				return fmt.Errorf("unknown statement %q", args[0])
			}

			p, err := openProject(cmd, root)
			if err != nil {
				return err
			}
			bookID, err := p.bookID(opts.book)
			if err != nil {
				return err
			}
			w, err := opts.period.window(p.cfg.Fiscal.YearStart)
			if err != nil {
				return err
			}
			st, err := p.statement(kind, opts.template)
			if err != nil {
				return err
			}

			includeDrafts := p.cfg.Reporting.IncludeDrafts
			if cmd.Flags().Changed("include-drafts") {
				includeDrafts = opts.includeDrafts
			}

			src, release, err := p.openSource(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			res, err := report.NewService(src, p.logger).Generate(cmd.Context(), report.Request{
				BookID:           bookID,
				Kind:             kind,
				Statement:        st,
				Period:           w,
				FiscalYearStart:  p.cfg.Fiscal.YearStart,
				CashCodes:        p.cfg.Reporting.CashCodes,
				IncludeDraft:     includeDrafts,
				ClosingPredicate: aggregate.ClosingTransfer(p.cfg.Reporting.ProfitAccount),
				Strict:           opts.strict || p.cfg.Reporting.StrictTemplates,
			})
			if err != nil {
				return err
			}

			format := report.Format(opts.format)
			if opts.output != "" {
				if err := report.WriteFile(p.path(opts.output), res, format); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.output)
			} else if err := report.Write(cmd.OutOrStdout(), res, format); err != nil {
				return err
			}

			entry := runlog.NewEntry(bookID, string(kind), w.String(), len(res.Discrepancies), len(res.Issues))
			if err := runlog.Append(p.root, []runlog.Entry{entry}); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to write report log: %v\n", err)
			}

			if !res.Balanced() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d balance check(s) failed\n", len(res.Discrepancies))
			}
			return nil
		},
	}

	opts.period.register(cmd)
	cmd.Flags().StringVar(&opts.book, "book", "", "book id (defaults to book.id in "+config.FileName+")")
	cmd.Flags().BoolVar(&opts.includeDrafts, "include-drafts", false, "count draft vouchers")
	cmd.Flags().StringVar(&opts.template, "template", "", "template file replacing the built-in template")
	cmd.Flags().StringVar(&opts.format, "format", string(report.FormatText), "output format: text or csv")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the statement to a file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject templates with formula cycles")

	return cmd
}
