package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/statements/internal/accounts"
	"github.com/cleared-dev/statements/internal/aggregate"
	"github.com/cleared-dev/statements/internal/config"
	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/store"
	"github.com/cleared-dev/statements/internal/store/filestore"
	"github.com/cleared-dev/statements/internal/store/pgstore"
	"github.com/cleared-dev/statements/internal/template"
)

// project is a loaded statements project directory.
type project struct {
	root   string
	cfg    *config.Config
	logger *slog.Logger
}

func openProject(cmd *cobra.Command, opts *rootOptions) (*project, error) {
	root, err := filepath.Abs(opts.projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", root, err)
	}
	return &project{root: root, cfg: cfg, logger: newLogger(cmd.ErrOrStderr(), opts.verbose)}, nil
}

// newLogger logs warnings, or everything when verbose, without timestamps.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// bookID returns override, or the configured book when override is empty.
func (p *project) bookID(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if p.cfg.Book.ID == "" {
		return "", errors.New("no book: set book.id in " + config.FileName + " or pass --book")
	}
	return p.cfg.Book.ID, nil
}

// path resolves a project-relative path.
func (p *project) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.root, rel)
}

func (p *project) fileStore() *filestore.Store {
	return filestore.New(p.path(p.cfg.Store.Root))
}

func openPostgres(ctx context.Context, cfg *config.Config) (*pgstore.Store, error) {
	dsn := os.Getenv(cfg.Store.DSNEnv)
	if dsn == "" {
		return nil, fmt.Errorf("%s is not set", cfg.Store.DSNEnv)
	}
	return pgstore.Open(ctx, dsn)
}

// openSource returns the configured book source and a function releasing it.
func (p *project) openSource(ctx context.Context) (store.Source, func(), error) {
	switch p.cfg.Store.Type {
	case config.StorePostgres:
		pg, err := openPostgres(ctx, p.cfg)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return p.fileStore(), func() {}, nil
	}
}

// aggregator loads a book up to w.End and builds an aggregator over it.
func (p *project) aggregator(ctx context.Context, bookID string, w model.Window, includeDraft bool) (*accounts.Service, *aggregate.Aggregator, error) {
	src, release, err := p.openSource(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	snap, err := store.Load(ctx, src, bookID, model.Until(w.End))
	if err != nil {
		return nil, nil, err
	}
	for _, is := range snap.Issues {
		p.logger.Warn("data quality", "book", bookID, "issue", is.String())
	}

	chart := accounts.NewService(snap.Accounts)
	agg := aggregate.New(chart, snap.Vouchers, aggregate.Options{
		IncludeDraft:     includeDraft,
		ClosingPredicate: aggregate.ClosingTransfer(p.cfg.Reporting.ProfitAccount),
	})
	return chart, agg, nil
}

// statement returns the template for kind: the file at path when given,
// otherwise <templates_dir>/<kind>.yaml when present. Nil means use the
// built-in template.
func (p *project) statement(kind template.Kind, path string) (*template.Statement, error) {
	if path == "" {
		if p.cfg.Reporting.TemplatesDir == "" {
			return nil, nil
		}
		path = filepath.Join(p.path(p.cfg.Reporting.TemplatesDir), string(kind)+".yaml")
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
	}

	st, err := template.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if st.Kind != kind {
		return nil, fmt.Errorf("template %s is a %s template, not %s", path, st.Kind, kind)
	}
	return &st, nil
}

// periodFlags select the reporting window.
type periodFlags struct {
	period string
	from   string
	to     string
}

func (f *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.period, "period", "", "reporting month (YYYY-MM)")
	cmd.Flags().StringVar(&f.from, "from", "", "first day (YYYY-MM-DD); defaults to the fiscal year start")
	cmd.Flags().StringVar(&f.to, "to", "", "last day (YYYY-MM-DD)")
}

// window resolves the flags. Without --from the window starts at the fiscal
// year start of --to.
func (f *periodFlags) window(fiscalYearStart string) (model.Window, error) {
	if f.period != "" {
		if f.from != "" || f.to != "" {
			return model.Window{}, errors.New("--period cannot be combined with --from or --to")
		}
		return model.ParseMonth(f.period)
	}
	if f.to == "" {
		return model.Window{}, errors.New("--period or --to is required")
	}

	end, err := time.Parse(model.DateFormat, f.to)
	if err != nil {
		return model.Window{}, fmt.Errorf("parsing --to: %w", err)
	}
	var start time.Time
	if f.from != "" {
		if start, err = time.Parse(model.DateFormat, f.from); err != nil {
			return model.Window{}, fmt.Errorf("parsing --from: %w", err)
		}
	} else if start, err = model.FiscalYearStart(end, fiscalYearStart); err != nil {
		return model.Window{}, err
	}
	if start.After(end) {
		return model.Window{}, fmt.Errorf("--from %s is after --to %s", f.from, f.to)
	}
	return model.Window{Start: start, End: end}, nil
}
