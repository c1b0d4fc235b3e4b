package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/statements/internal/accounts"
	"github.com/cleared-dev/statements/internal/config"
	"github.com/cleared-dev/statements/internal/gitops"
	"github.com/cleared-dev/statements/internal/journal"
	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/money"
)

func newVoucherCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voucher",
		Short: "Manage vouchers",
	}
	cmd.AddCommand(newVoucherAddCommand(root))
	return cmd
}

type voucherAddOptions struct {
	book   string
	date   string
	status string
	lines  []string
}

func newVoucherAddCommand(root *rootOptions) *cobra.Command {
	var opts voucherAddOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Post a voucher to the journal",
		Example: `  statements voucher add --date 2025-03-15 --status approved \
    --line 1002:500::Sale --line 6001::500:Sale`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, root)
			if err != nil {
				return err
			}
			bookID, err := p.bookID(opts.book)
			if err != nil {
				return err
			}
			params, err := opts.params()
			if err != nil {
				return err
			}

			if p.cfg.Store.Type == config.StorePostgres {
				id, err := postVoucher(cmd.Context(), p, bookID, params)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Posted voucher %s\n", id)
				return nil
			}

			j, err := p.fileStore().Journal(bookID)
			if err != nil {
				return err
			}
			id, err := j.Post(params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posted voucher %s\n", id)

			if !p.cfg.Git.AutoCommit || !gitops.IsRepo(p.root) {
				return nil
			}
			bookRoot, err := p.fileStore().BookRoot(bookID)
			if err != nil {
				return err
			}
			journalPath := filepath.Join(bookRoot, params.Date.Format("2006"), params.Date.Format("01"))
			if _, err := gitops.Commit(p.root, "voucher: "+id, author(p.cfg), journalPath); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to commit voucher: %v\n", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.book, "book", "", "book id (defaults to book.id in "+config.FileName+")")
	cmd.Flags().StringVar(&opts.date, "date", "", "voucher date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&opts.status, "status", string(model.StatusDraft), "draft, approved or void")
	cmd.Flags().StringArrayVar(&opts.lines, "line", nil, "code:debit:credit[:summary], repeatable")

	return cmd
}

func (o *voucherAddOptions) params() (journal.PostParams, error) {
	date, err := time.Parse(model.DateFormat, o.date)
	if err != nil {
		return journal.PostParams{}, fmt.Errorf("parsing --date: %w", err)
	}
	status := model.VoucherStatus(o.status)
	if !status.Valid() {
		return journal.PostParams{}, fmt.Errorf("unknown status %q", o.status)
	}

	params := journal.PostParams{Date: date, Status: status}
	for _, s := range o.lines {
		l, err := parseLine(s)
		if err != nil {
			return journal.PostParams{}, err
		}
		params.Lines = append(params.Lines, l)
	}
	return params, nil
}

// parseLine reads a code:debit:credit[:summary] line argument.
func parseLine(s string) (model.VoucherLine, error) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) < 3 || parts[0] == "" {
		return model.VoucherLine{}, fmt.Errorf("invalid line %q: want code:debit:credit[:summary]", s)
	}
	debit, ok := money.Parse(parts[1])
	if !ok {
		return model.VoucherLine{}, fmt.Errorf("invalid line %q: bad debit %q", s, parts[1])
	}
	credit, ok := money.Parse(parts[2])
	if !ok {
		return model.VoucherLine{}, fmt.Errorf("invalid line %q: bad credit %q", s, parts[2])
	}
	l := model.VoucherLine{SubjectCode: parts[0], Debit: debit, Credit: credit}
	if len(parts) == 4 {
		l.Summary = parts[3]
	}
	return l, nil
}

// postVoucher validates and inserts a voucher into a Postgres book.
func postVoucher(ctx context.Context, p *project, bookID string, params journal.PostParams) (string, error) {
	pg, err := openPostgres(ctx, p.cfg)
	if err != nil {
		return "", err
	}
	defer pg.Close()

	accts, _, err := pg.ListAccounts(ctx, bookID)
	if err != nil {
		return "", err
	}
	existing, err := pg.ListVouchers(ctx, bookID, model.Month(params.Date.Year(), params.Date.Month()))
	if err != nil {
		return "", err
	}

	v, err := journal.Prepare(existing, accounts.NewService(accts), params)
	if err != nil {
		return "", err
	}
	if err := pg.InsertVoucher(ctx, bookID, v); err != nil {
		return "", err
	}
	return v.ID, nil
}
