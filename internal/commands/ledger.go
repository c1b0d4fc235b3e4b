package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/statements/internal/config"
	"github.com/cleared-dev/statements/internal/ledger"
	"github.com/cleared-dev/statements/internal/model"
)

type ledgerOptions struct {
	period        periodFlags
	book          string
	includeDrafts bool
}

func newLedgerCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Show the general ledger",
	}
	cmd.AddCommand(
		newLedgerSummaryCommand(root),
		newLedgerDetailCommand(root),
	)
	return cmd
}

func (o *ledgerOptions) register(cmd *cobra.Command) {
	o.period.register(cmd)
	cmd.Flags().StringVar(&o.book, "book", "", "book id (defaults to book.id in "+config.FileName+")")
	cmd.Flags().BoolVar(&o.includeDrafts, "include-drafts", false, "count draft vouchers")
}

// load opens the project and resolves the window and book for a ledger
// subcommand.
func (o *ledgerOptions) load(cmd *cobra.Command, root *rootOptions) (*project, string, model.Window, error) {
	p, err := openProject(cmd, root)
	if err != nil {
		return nil, "", model.Window{}, err
	}
	bookID, err := p.bookID(o.book)
	if err != nil {
		return nil, "", model.Window{}, err
	}
	w, err := o.period.window(p.cfg.Fiscal.YearStart)
	if err != nil {
		return nil, "", model.Window{}, err
	}
	if !cmd.Flags().Changed("include-drafts") {
		o.includeDrafts = p.cfg.Reporting.IncludeDrafts
	}
	return p, bookID, w, nil
}

func newLedgerSummaryCommand(root *rootOptions) *cobra.Command {
	var (
		opts  ledgerOptions
		level int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Opening balance, turnover and closing balance per account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, bookID, w, err := opts.load(cmd, root)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("level") {
				level = p.cfg.Reporting.LedgerLevel
			}
			fyStart, err := model.FiscalYearStart(w.End, p.cfg.Fiscal.YearStart)
			if err != nil {
				return err
			}

			chart, agg, err := p.aggregator(cmd.Context(), bookID, w, opts.includeDrafts)
			if err != nil {
				return err
			}
			s := ledger.Summarize(agg, chart, w, fyStart, level)
			for _, d := range s.Discrepancies {
				p.logger.Warn("trial balance failed", "book", bookID, "check", d.String())
			}
			return ledger.WriteSummary(cmd.OutOrStdout(), s)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVar(&level, "level", 1, "account hierarchy level")

	return cmd
}

func newLedgerDetailCommand(root *rootOptions) *cobra.Command {
	var opts ledgerOptions

	cmd := &cobra.Command{
		Use:   "detail <account-code>",
		Short: "List postings to an account with a running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, bookID, w, err := opts.load(cmd, root)
			if err != nil {
				return err
			}

			chart, agg, err := p.aggregator(cmd.Context(), bookID, w, opts.includeDrafts)
			if err != nil {
				return err
			}
			d, err := ledger.Detail(agg, chart, args[0], w)
			if err != nil {
				return err
			}
			return ledger.WriteDetail(cmd.OutOrStdout(), d)
		},
	}

	opts.register(cmd)

	return cmd
}
