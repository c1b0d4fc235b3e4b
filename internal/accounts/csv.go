package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/money"
)

const (
	numFields  = 5
	colCode    = 0
	colName    = 1
	colDir     = 2
	colLevel   = 3
	colInitial = 4
)

// ReadAccounts reads chart-of-accounts.csv. A malformed initial balance is
// read as zero and reported as an issue rather than failing the whole chart.
func ReadAccounts(r io.Reader) ([]model.Account, []model.Issue, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil, nil
	}

	var accounts []model.Account
	var issues []model.Issue
	for i, rec := range records[1:] {
		acct, issue, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if issue != nil {
			issues = append(issues, *issue)
		}
		accounts = append(accounts, acct)
	}
	return accounts, issues, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"code", "name", "direction", "level", "initial_balance"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colDir] = string(acct.Direction)
	if acct.Level != 0 {
		row[colLevel] = strconv.Itoa(acct.Level)
	}
	if !acct.InitialBalance.IsZero() {
		row[colInitial] = acct.InitialBalance.StringFixed(2)
	}
	return row
}

// UnmarshalAccount converts a CSV row to an Account. The returned issue is
// non-nil when the initial balance had to be coerced to zero.
func UnmarshalAccount(record []string) (model.Account, *model.Issue, error) {
	if len(record) != numFields {
		return model.Account{}, nil, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	code := record[colCode]
	if code == "" {
		return model.Account{}, nil, fmt.Errorf("empty account code")
	}

	dir := model.Direction(record[colDir])
	if !dir.Valid() {
		return model.Account{}, nil, fmt.Errorf("account %s: invalid direction %q", code, record[colDir])
	}

	level := LevelOf(code)
	if record[colLevel] != "" {
		var err error
		level, err = strconv.Atoi(record[colLevel])
		if err != nil {
			return model.Account{}, nil, fmt.Errorf("parsing level %q: %w", record[colLevel], err)
		}
	}

	var issue *model.Issue
	initial, ok := money.Parse(record[colInitial])
	if !ok {
		issue = &model.Issue{
			Ref:    code,
			Field:  "initial_balance",
			Value:  record[colInitial],
			Reason: "not a non-negative decimal, read as zero",
		}
	}

	return model.Account{
		Code:           code,
		Name:           record[colName],
		Direction:      dir,
		Level:          level,
		InitialBalance: initial,
	}, issue, nil
}

// LevelOf derives the hierarchy depth from a code: four digits for the first
// level and two more for each level below.
func LevelOf(code string) int {
	if len(code) <= 4 {
		return 1
	}
	return 1 + (len(code)-3)/2
}
