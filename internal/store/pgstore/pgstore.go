// Package pgstore serves books from PostgreSQL.
package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/id"
	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/money"
	"github.com/cleared-dev/statements/internal/store"
)

// Schema creates the tables the store reads. Amounts are kept as entered
// (text) and parsed leniently on read.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	book_id         TEXT NOT NULL,
	code            TEXT NOT NULL,
	name            TEXT NOT NULL DEFAULT '',
	direction       TEXT NOT NULL,
	level           INT  NOT NULL DEFAULT 0,
	initial_balance TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (book_id, code)
);

CREATE TABLE IF NOT EXISTS vouchers (
	book_id      TEXT NOT NULL,
	id           TEXT NOT NULL,
	voucher_date DATE NOT NULL,
	status       TEXT NOT NULL,
	PRIMARY KEY (book_id, id)
);

CREATE TABLE IF NOT EXISTS voucher_lines (
	book_id      TEXT NOT NULL,
	voucher_id   TEXT NOT NULL,
	line_no      INT  NOT NULL,
	subject_code TEXT NOT NULL,
	summary      TEXT NOT NULL DEFAULT '',
	debit        TEXT NOT NULL DEFAULT '',
	credit       TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (book_id, voucher_id, line_no),
	FOREIGN KEY (book_id, voucher_id) REFERENCES vouchers (book_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS vouchers_book_date ON vouchers (book_id, voucher_date);
`

// Store reads books from a connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Source = (*Store)(nil)

// Open connects to the database at dsn.
func Open(ctx context.Context, dsn string) (*Store, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// ListAccounts returns the book's chart of accounts ordered by code.
func (s *Store) ListAccounts(ctx context.Context, bookID string) ([]model.Account, []model.Issue, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT code, name, direction, level, initial_balance
		FROM accounts
		WHERE book_id = $1
		ORDER BY code`, bookID)
	if err != nil {
		return nil, nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var (
		accts  []model.Account
		issues []model.Issue
	)
	for rows.Next() {
		var (
			a         model.Account
			direction string
			initial   string
		)
		if err := rows.Scan(&a.Code, &a.Name, &direction, &a.Level, &initial); err != nil {
			return nil, nil, fmt.Errorf("scanning account: %w", err)
		}
		a.Direction = model.Direction(direction)
		if !a.Direction.Valid() {
			return nil, nil, fmt.Errorf("account %s: invalid direction %q", a.Code, direction)
		}
		var ok bool
		if a.InitialBalance, ok = money.Parse(initial); !ok {
			issues = append(issues, model.Issue{
				Ref:    a.Code,
				Field:  "initial_balance",
				Value:  initial,
				Reason: "not a non-negative decimal, read as zero",
			})
		}
		accts = append(accts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading accounts: %w", err)
	}
	if len(accts) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", bookID, store.ErrBookNotFound)
	}
	return accts, issues, nil
}

// ListVouchers returns the vouchers dated inside w with their lines, ordered
// by date then id.
func (s *Store) ListVouchers(ctx context.Context, bookID string, w model.Window) ([]model.Voucher, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT v.id, v.voucher_date, v.status, l.subject_code, l.summary, l.debit, l.credit
		FROM vouchers v
		JOIN voucher_lines l ON l.book_id = v.book_id AND l.voucher_id = v.id
		WHERE v.book_id = $1
		  AND ($2::date IS NULL OR v.voucher_date >= $2::date)
		  AND ($3::date IS NULL OR v.voucher_date <= $3::date)
		ORDER BY v.voucher_date, v.id, l.line_no`,
		bookID, bound(w.Start), bound(w.End))
	if err != nil {
		return nil, fmt.Errorf("querying vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []model.Voucher
	for rows.Next() {
		var (
			vid, status, debit, credit string
			date                       time.Time
			line                       model.VoucherLine
		)
		if err := rows.Scan(&vid, &date, &status, &line.SubjectCode, &line.Summary, &debit, &credit); err != nil {
			return nil, fmt.Errorf("scanning voucher line: %w", err)
		}

		if n := len(vouchers); n == 0 || vouchers[n-1].ID != vid {
			vouchers = append(vouchers, model.Voucher{ID: vid, Date: model.Day(date), Status: model.VoucherStatus(status)})
		}
		v := &vouchers[len(vouchers)-1]
		lineID := id.FormatLineID(vid, len(v.Lines))

		var ok bool
		if line.Debit, ok = money.Parse(debit); !ok {
			v.Issues = append(v.Issues, lineIssue(lineID, "debit", debit))
		}
		if line.Credit, ok = money.Parse(credit); !ok {
			v.Issues = append(v.Issues, lineIssue(lineID, "credit", credit))
		}
		v.Lines = append(v.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading vouchers: %w", err)
	}
	return vouchers, nil
}

// SaveAccounts upserts the chart of accounts of a book.
func (s *Store) SaveAccounts(ctx context.Context, bookID string, accts []model.Account) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, a := range accts {
			if _, err := tx.Exec(ctx, `
				INSERT INTO accounts (book_id, code, name, direction, level, initial_balance)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (book_id, code) DO UPDATE SET
					name = EXCLUDED.name,
					direction = EXCLUDED.direction,
					level = EXCLUDED.level,
					initial_balance = EXCLUDED.initial_balance`,
				bookID, a.Code, a.Name, string(a.Direction), a.Level, amountText(a.InitialBalance)); err != nil {
				return fmt.Errorf("saving account %s: %w", a.Code, err)
			}
		}
		return nil
	})
}

// InsertVoucher stores a voucher and its lines in one transaction.
func (s *Store) InsertVoucher(ctx context.Context, bookID string, v model.Voucher) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO vouchers (book_id, id, voucher_date, status)
			VALUES ($1, $2, $3, $4)`,
			bookID, v.ID, v.Date, string(v.Status)); err != nil {
			return fmt.Errorf("inserting voucher %s: %w", v.ID, err)
		}
		for i, l := range v.Lines {
			if _, err := tx.Exec(ctx, `
				INSERT INTO voucher_lines (book_id, voucher_id, line_no, subject_code, summary, debit, credit)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				bookID, v.ID, i, l.SubjectCode, l.Summary, amountText(l.Debit), amountText(l.Credit)); err != nil {
				return fmt.Errorf("inserting voucher %s line %d: %w", v.ID, i, err)
			}
		}
		return nil
	})
}

func bound(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	d := model.Day(t)
	return &d
}

func amountText(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}

func lineIssue(ref, field, value string) model.Issue {
	return model.Issue{
		Ref:    ref,
		Field:  field,
		Value:  value,
		Reason: "not a non-negative decimal, read as zero",
	}
}
