// Package filestore serves books from CSV files on disk:
//
//	<root>/<book>/accounts/chart-of-accounts.csv
//	<root>/<book>/YYYY/MM/journal.csv
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/statements/internal/accounts"
	"github.com/cleared-dev/statements/internal/journal"
	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/store"
)

// Store reads books below a root directory.
type Store struct {
	root string
}

var _ store.Source = (*Store)(nil)

// New creates a Store rooted at root.
func New(root string) *Store {
	return &Store{root: root}
}

// BookRoot returns the directory holding bookID.
func (s *Store) BookRoot(bookID string) (string, error) {
	if bookID == "" || bookID != filepath.Base(bookID) || strings.HasPrefix(bookID, ".") {
		return "", fmt.Errorf("invalid book id %q", bookID)
	}
	return filepath.Join(s.root, bookID), nil
}

// ListAccounts reads the book's chart of accounts.
func (s *Store) ListAccounts(ctx context.Context, bookID string) ([]model.Account, []model.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	dir, err := s.BookRoot(bookID)
	if err != nil {
		return nil, nil, err
	}

	chart, err := accounts.Load(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%s: %w", dir, store.ErrBookNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	return chart.All(), chart.Issues(), nil
}

// ListVouchers reads every journal month overlapping w.
func (s *Store) ListVouchers(ctx context.Context, bookID string, w model.Window) ([]model.Voucher, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := s.BookRoot(bookID)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", dir, store.ErrBookNotFound)
	}
	return journal.NewService(dir, nil).ReadRange(w)
}

// Journal returns a journal service for posting to bookID, validating
// against the book's chart of accounts.
func (s *Store) Journal(bookID string) (*journal.Service, error) {
	dir, err := s.BookRoot(bookID)
	if err != nil {
		return nil, err
	}
	chart, err := accounts.Load(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", dir, store.ErrBookNotFound)
	}
	if err != nil {
		return nil, err
	}
	return journal.NewService(dir, chart), nil
}

// Books lists the book directories under the root.
func (s *Store) Books() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	var books []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, e.Name(), "accounts", "chart-of-accounts.csv")); err == nil {
			books = append(books, e.Name())
		}
	}
	return books, nil
}
