package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/statements/internal/model"
)

// Service provides in-memory lookup over the chart of accounts.
// It is read-only after construction and safe to share between reports.
type Service struct {
	accounts []model.Account
	byCode   map[string]model.Account
	children map[string][]string
	issues   []model.Issue
}

// NewService creates a Service from a slice of accounts, ordered by code.
func NewService(accounts []model.Account) *Service {
	sorted := make([]model.Account, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	byCode := make(map[string]model.Account, len(sorted))
	for _, a := range sorted {
		byCode[a.Code] = a
	}

	// A child's parent is its longest proper prefix present in the chart.
	children := make(map[string][]string)
	for _, a := range sorted {
		for n := len(a.Code) - 1; n > 0; n-- {
			if _, ok := byCode[a.Code[:n]]; ok {
				children[a.Code[:n]] = append(children[a.Code[:n]], a.Code)
				break
			}
		}
	}
	return &Service{accounts: sorted, byCode: byCode, children: children}
}

// Load reads accounts/chart-of-accounts.csv from a book root and returns a Service.
func Load(bookRoot string) (*Service, error) {
	path := filepath.Join(bookRoot, "accounts", "chart-of-accounts.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, issues, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	svc := NewService(accts)
	svc.issues = issues
	return svc, nil
}

// All returns all accounts ordered by code.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Issues returns the data-quality issues found while loading.
func (s *Service) Issues() []model.Issue {
	return s.issues
}

// Get returns an account by code.
func (s *Service) Get(code string) (model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether an account code exists.
func (s *Service) Exists(code string) bool {
	_, ok := s.byCode[code]
	return ok
}

// Children returns the direct children of code.
func (s *Service) Children(code string) []model.Account {
	var result []model.Account
	for _, c := range s.children[code] {
		result = append(result, s.byCode[c])
	}
	return result
}

// IsLeaf reports whether code exists and has no children.
func (s *Service) IsLeaf(code string) bool {
	return s.Exists(code) && len(s.children[code]) == 0
}

// LeavesUnder returns every leaf account equal to or below code.
// code need not itself be an account: "6" selects all profit-and-loss leaves.
func (s *Service) LeavesUnder(code string) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if model.Under(a.Code, code) && len(s.children[a.Code]) == 0 {
			result = append(result, a)
		}
	}
	return result
}

// Leaves returns every leaf account.
func (s *Service) Leaves() []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if len(s.children[a.Code]) == 0 {
			result = append(result, a)
		}
	}
	return result
}

// AtLevel returns accounts at the given hierarchy depth.
func (s *Service) AtLevel(level int) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Level == level {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(bookRoot string) error {
	dir := filepath.Join(bookRoot, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	path := filepath.Join(dir, "chart-of-accounts.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}

// Minimal de-duplicates a code list by dropping empty codes, repeats, and any
// code that lies beneath another selected code. Aggregating over the result
// counts every posting exactly once.
func Minimal(codes []string) []string {
	sorted := make([]string, 0, len(codes))
	for _, c := range codes {
		if c = strings.TrimSpace(c); c != "" {
			sorted = append(sorted, c)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) < len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})

	var kept []string
outer:
	for _, c := range sorted {
		for _, k := range kept {
			if strings.HasPrefix(c, k) {
				continue outer
			}
		}
		kept = append(kept, c)
	}
	sort.Strings(kept)
	return kept
}
