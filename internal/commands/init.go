package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/statements/internal/accounts"
	"github.com/cleared-dev/statements/internal/config"
	"github.com/cleared-dev/statements/internal/gitops"
	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/template"
)

type initOptions struct {
	book            string
	name            string
	fiscalYearStart string
	storeType       string
	git             bool
}

func newInitCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new statements project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.book, "book", "", "book id (required)")
	_ = cmd.MarkFlagRequired("book")
	cmd.Flags().StringVar(&opts.name, "name", "", "business name (defaults to the book id)")
	cmd.Flags().StringVar(&opts.fiscalYearStart, "fiscal-year-start", "01-01", "first day of the fiscal year (MM-DD)")
	cmd.Flags().StringVar(&opts.storeType, "store", config.StoreFile, "where books live: file or postgres")
	cmd.Flags().BoolVar(&opts.git, "git", false, "initialize a git repository and commit the project")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir string, opts initOptions) error {
	if opts.name == "" {
		opts.name = opts.book
	}
	if _, err := model.FiscalYearStart(time.Now(), opts.fiscalYearStart); err != nil {
		return err
	}

	cfg := config.Default(opts.book, opts.name)
	cfg.Fiscal.YearStart = opts.fiscalYearStart
	cfg.Store.Type = opts.storeType
	cfg.Reporting.TemplatesDir = "templates"
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create directory structure.
	for _, d := range []string{"templates", "logs", "reports"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write statements.yaml.
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the built-in templates so they can be edited.
	for _, st := range []template.Statement{
		template.BalanceSheet(),
		template.IncomeStatement(),
		template.CashFlow(cfg.Reporting.CashCodes),
	} {
		if err := writeTemplate(filepath.Join(dir, "templates", string(st.Kind)+".yaml"), st); err != nil {
			return err
		}
	}

	// Write the chart of accounts.
	p := &project{root: dir, cfg: cfg}
	if err := initChart(ctx, p); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Write .gitignore.
	gitignore := "reports/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !opts.git {
		fmt.Fprintf(out, "Initialized statements project at %s\n", dir)
		return nil
	}

	// Initialize git and create initial commit.
	if err := gitops.Init(dir); err != nil {
		return err
	}
	hash, err := gitops.Commit(dir, "init: Initialize "+opts.name, author(cfg))
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized statements project at %s (%s)\n", dir, hash)
	return nil
}

func initChart(ctx context.Context, p *project) error {
	chart := accounts.DefaultChart()
	if p.cfg.Store.Type == config.StorePostgres {
		pg, err := openPostgres(ctx, p.cfg)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		return pg.SaveAccounts(ctx, p.cfg.Book.ID, chart)
	}

	bookRoot, err := p.fileStore().BookRoot(p.cfg.Book.ID)
	if err != nil {
		return err
	}
	return accounts.NewService(chart).Save(bookRoot)
}

func writeTemplate(path string, st template.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating template: %w", err)
	}
	defer f.Close()

	if err := template.Encode(f, st); err != nil {
		return fmt.Errorf("writing template %s: %w", path, err)
	}
	return f.Close()
}

func author(cfg *config.Config) gitops.Author {
	return gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
}
