// Package store fetches the chart of accounts and vouchers of a book from a
// data source and assembles them into a read-only snapshot.
package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/statements/internal/model"
)

// ErrBookNotFound is returned when a source has no book with the given id.
var ErrBookNotFound = errors.New("book not found")

// Source is a book data collaborator. Implementations must be safe for
// concurrent use by Load.
type Source interface {
	// ListAccounts returns every chart-of-accounts entry of the book, plus
	// data-quality issues found while decoding them.
	ListAccounts(ctx context.Context, bookID string) ([]model.Account, []model.Issue, error)
	// ListVouchers returns the vouchers dated inside w.
	ListVouchers(ctx context.Context, bookID string, w model.Window) ([]model.Voucher, error)
}

// Snapshot is the data a report is computed from. Nothing downstream
// modifies it.
type Snapshot struct {
	BookID   string
	Accounts []model.Account
	Vouchers []model.Voucher
	Issues   []model.Issue
}

// Load fetches accounts and vouchers concurrently. The first fetch error
// cancels the other fetch and is returned wrapped; there is no retry.
func Load(ctx context.Context, src Source, bookID string, w model.Window) (*Snapshot, error) {
	snap := &Snapshot{BookID: bookID}
	var accountIssues []model.Issue

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accts, issues, err := src.ListAccounts(ctx, bookID)
		if err != nil {
			return fmt.Errorf("listing accounts of %s: %w", bookID, err)
		}
		snap.Accounts, accountIssues = accts, issues
		return nil
	})
	g.Go(func() error {
		vouchers, err := src.ListVouchers(ctx, bookID, w)
		if err != nil {
			return fmt.Errorf("listing vouchers of %s: %w", bookID, err)
		}
		snap.Vouchers = vouchers
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.Issues = append(snap.Issues, accountIssues...)
	for _, v := range snap.Vouchers {
		snap.Issues = append(snap.Issues, v.Issues...)
	}
	return snap, nil
}
