package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cleared-dev/statements/internal/accounts"
	"github.com/cleared-dev/statements/internal/aggregate"
	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/store"
	"github.com/cleared-dev/statements/internal/template"
)

// Request describes one statement to generate.
type Request struct {
	BookID string
	Kind   template.Kind
	// Statement replaces the built-in template of Kind when set.
	Statement *template.Statement
	Period    model.Window
	// FiscalYearStart is "MM-DD"; empty means January 1st.
	FiscalYearStart string
	// CashCodes default to accounts.CashAccounts.
	CashCodes        []string
	IncludeDraft     bool
	ClosingPredicate func(model.Voucher) bool
	// Strict rejects templates with formula cycles.
	Strict bool
}

// Service generates statements from a book source.
type Service struct {
	src    store.Source
	logger *slog.Logger
}

// NewService returns a Service reading from src. A nil logger discards output.
func NewService(src store.Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{src: src, logger: logger}
}

// Generate loads the book, compiles the statement and evaluates it for the
// requested period. Failed balance checks and data-quality issues are
// reported on the result, not as errors.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Period.End.IsZero() {
		return nil, errors.New("period end is required")
	}
	fyStart, err := model.FiscalYearStart(req.Period.End, req.FiscalYearStart)
	if err != nil {
		return nil, err
	}

	cashCodes := req.CashCodes
	if len(cashCodes) == 0 {
		cashCodes = accounts.CashAccounts
	}

	var st template.Statement
	if req.Statement != nil {
		st = *req.Statement
		if st.Kind == template.KindCashFlow && len(st.CashCodes) == 0 {
			st.CashCodes = cashCodes
		}
	} else {
		var ok bool
		if st, ok = template.Builtin(req.Kind, cashCodes); !ok {
			return nil, fmt.Errorf("no built-in template for %q", req.Kind)
		}
	}

	compiled, err := template.Compile(st, template.Options{Strict: req.Strict})
	if err != nil {
		return nil, fmt.Errorf("compiling %s template: %w", st.Kind, err)
	}

	snap, err := store.Load(ctx, s.src, req.BookID, model.Until(req.Period.End))
	if err != nil {
		return nil, err
	}

	chart := accounts.NewService(snap.Accounts)
	agg := aggregate.New(chart, snap.Vouchers, aggregate.Options{
		IncludeDraft:     req.IncludeDraft,
		ClosingPredicate: req.ClosingPredicate,
	})

	res := Evaluate(compiled, agg, req.Period, fyStart)
	res.Issues = append(res.Issues, snap.Issues...)
	res.Issues = append(res.Issues, Coverage(compiled.Statement, chart)...)

	log := s.logger.With("book", req.BookID, "statement", string(st.Kind), "period", req.Period.String())
	for _, w := range res.Warnings {
		log.Warn("template", "warning", w)
	}
	for _, is := range snap.Issues {
		log.Warn("data quality", "issue", is.String())
	}
	for _, d := range res.Discrepancies {
		log.Warn("balance check failed", "check", d.Check, "column", string(d.Column), "diff", d.Diff.StringFixed(2))
	}
	log.Info("statement generated", "rows", len(res.Rows), "discrepancies", len(res.Discrepancies), "issues", len(res.Issues))
	return res, nil
}

// Coverage checks how the statement binds the leaves it is meant to explain:
// every leaf for a balance sheet, profit-and-loss leaves for an income
// statement. Other kinds are not checked.
func Coverage(st template.Statement, chart *accounts.Service) []model.Issue {
	switch st.Kind {
	case template.KindBalanceSheet:
		return template.Coverage(st, chart.Leaves())
	case template.KindIncomeStatement:
		return template.Coverage(st, chart.LeavesUnder("6"))
	}
	return nil
}
