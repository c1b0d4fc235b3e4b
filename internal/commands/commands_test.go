package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/statements/internal/accounts"
	"github.com/cleared-dev/statements/internal/commands"
	"github.com/cleared-dev/statements/internal/config"
	"github.com/cleared-dev/statements/internal/runlog"
	"github.com/cleared-dev/statements/internal/template"
)

func init() {
	color.NoColor = true
}

// runStatements executes the CLI in-process with a fresh command tree.
func runStatements(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// newProject initializes a project in a temp dir and returns its path.
func newProject(t *testing.T, extra ...string) string {
	t.Helper()
	dir := t.TempDir()
	args := append([]string{"init", dir, "--book", "acme", "--name", "Acme Trading"}, extra...)
	_, _, err := runStatements(t, args...)
	require.NoError(t, err)
	return dir
}

// postSample posts the vouchers most tests report on: two approved sales,
// approved rent and a draft stationery purchase.
func postSample(t *testing.T, dir string) {
	t.Helper()
	for _, args := range [][]string{
		{"--date", "2025-01-10", "--status", "approved",
			"--line", "1002:1130::Sale", "--line", "6001::1000:Sale", "--line", "222101::130:Output VAT"},
		{"--date", "2025-02-05", "--status", "approved",
			"--line", "6602:300::Office rent", "--line", "1001::300:Office rent"},
		{"--date", "2025-03-15", "--status", "approved",
			"--line", "1002:500::Sale", "--line", "6001::500:Sale"},
		{"--date", "2025-03-20",
			"--line", "6602:80::Stationery", "--line", "1001::80:Stationery"},
	} {
		_, _, err := runStatements(t, append([]string{"-C", dir, "voucher", "add"}, args...)...)
		require.NoError(t, err)
	}
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, _, err := runStatements(t, "init", dir, "--book", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized statements project at "+dir)

	for _, d := range []string{"templates", "logs", "reports", filepath.Join("books", "acme", "accounts")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "reports/\n.env\n", string(gitignore))
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runStatements(t, "init", dir, "--book", "acme", "--name", "Acme Trading", "--fiscal-year-start", "04-01")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Book.ID)
	assert.Equal(t, "Acme Trading", cfg.Book.Name)
	assert.Equal(t, "04-01", cfg.Fiscal.YearStart)
	assert.Equal(t, "templates", cfg.Reporting.TemplatesDir)
	assert.Equal(t, config.StoreFile, cfg.Store.Type)
}

func TestInit_ChartAndTemplates(t *testing.T) {
	dir := newProject(t)

	chart, err := accounts.Load(filepath.Join(dir, "books", "acme"))
	require.NoError(t, err)
	assert.Len(t, chart.All(), len(accounts.DefaultChart()))

	for _, kind := range []template.Kind{template.KindBalanceSheet, template.KindIncomeStatement, template.KindCashFlow} {
		st, err := template.LoadFile(filepath.Join(dir, "templates", string(kind)+".yaml"))
		require.NoError(t, err, kind)
		assert.Equal(t, kind, st.Kind)
	}
	st, err := template.LoadFile(filepath.Join(dir, "templates", "cash_flow.yaml"))
	require.NoError(t, err)
	assert.Equal(t, accounts.CashAccounts, st.CashCodes)
}

func TestInit_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing book", []string{}},
		{"bad fiscal year start", []string{"--book", "acme", "--fiscal-year-start", "13-01"}},
		{"unknown store", []string{"--book", "acme", "--store", "s3"}},
		{"invalid book id", []string{"--book", "../acme"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runStatements(t, append([]string{"init", t.TempDir()}, tt.args...)...)
			assert.Error(t, err)
		})
	}
}

func TestInit_Git(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	out, _, err := runStatements(t, "init", dir, "--book", "acme", "--git")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized statements project at "+dir+" (")
	assert.DirExists(t, filepath.Join(dir, ".git"))

	// Posting to a git project commits the journal.
	out, stderr, err := runStatements(t, "-C", dir, "voucher", "add", "--date", "2025-03-15",
		"--line", "1002:500::Sale", "--line", "6001::500:Sale")
	require.NoError(t, err)
	assert.Equal(t, "Posted voucher 2025-03-001\n", out)
	assert.NotContains(t, stderr, "warning")

	log, err := exec.Command("git", "-C", dir, "log", "--format=%s").Output()
	require.NoError(t, err)
	assert.Equal(t, "voucher: 2025-03-001\ninit: Initialize acme\n", string(log))
}

func TestVoucherAdd(t *testing.T) {
	dir := newProject(t)

	out, _, err := runStatements(t, "-C", dir, "voucher", "add", "--date", "2025-03-15", "--status", "approved",
		"--line", "1002:500::Sale", "--line", "6001::500:Sale")
	require.NoError(t, err)
	assert.Equal(t, "Posted voucher 2025-03-001\n", out)

	out, _, err = runStatements(t, "-C", dir, "voucher", "add", "--date", "2025-03-20",
		"--line", "6602:80::Stationery", "--line", "1001::80:Stationery")
	require.NoError(t, err)
	assert.Equal(t, "Posted voucher 2025-03-002\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "books", "acme", "2025", "03", "journal.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "2025-03-001a,2025-03-15,approved,1002,Sale,500.00,")
	assert.Contains(t, string(data), "2025-03-002b,2025-03-20,draft,1001,Stationery,,80.00")
}

func TestVoucherAdd_Errors(t *testing.T) {
	dir := newProject(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unbalanced", []string{"--date", "2025-03-15", "--line", "1002:500::", "--line", "6001::400:"}, "validation failed"},
		{"parent account", []string{"--date", "2025-03-15", "--line", "2221:500::", "--line", "6001::500:"}, "sub-accounts"},
		{"one line", []string{"--date", "2025-03-15", "--line", "1002:500::"}, "at least 2 lines"},
		{"bad line", []string{"--date", "2025-03-15", "--line", "1002", "--line", "6001::500:"}, "invalid line"},
		{"negative amount", []string{"--date", "2025-03-15", "--line", "1002:-500::", "--line", "6001::500:"}, "bad debit"},
		{"bad status", []string{"--date", "2025-03-15", "--status", "posted", "--line", "1002:500::", "--line", "6001::500:"}, "unknown status"},
		{"bad date", []string{"--date", "15/03/2025", "--line", "1002:500::", "--line", "6001::500:"}, "--date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runStatements(t, append([]string{"-C", dir, "voucher", "add"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := os.Stat(filepath.Join(dir, "books", "acme", "2025", "03", "journal.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReport_IncomeStatementCSV(t *testing.T) {
	dir := newProject(t)
	postSample(t, dir)

	out, stderr, err := runStatements(t, "-C", dir, "report", "income-statement", "--period", "2025-03", "--format", "csv")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	g := goldie.New(t)
	g.Assert(t, "income_statement_csv", []byte(out))
}

func TestReport_IncludeDrafts(t *testing.T) {
	dir := newProject(t)
	postSample(t, dir)

	out, _, err := runStatements(t, "-C", dir, "report", "income-statement", "--period", "2025-03", "--format", "csv", "--include-drafts")
	require.NoError(t, err)
	assert.Contains(t, out, "5,Administrative expenses,80.00,380.00,0.00\n")
	assert.Contains(t, out, "15,Net profit,420.00,1120.00,0.00\n")
}

func TestReport_BalanceSheetText(t *testing.T) {
	dir := newProject(t)
	postSample(t, dir)

	out, stderr, err := runStatements(t, "-C", dir, "report", "balance-sheet", "--to", "2025-03-31")
	require.NoError(t, err)
	assert.Contains(t, out, "Period: 2025-01-01..2025-03-31\n")
	assert.NotContains(t, out, "Discrepancies:")
	assert.NotContains(t, stderr, "balance check")
}

func TestReport_OutputFileAndLog(t *testing.T) {
	dir := newProject(t)
	postSample(t, dir)

	out, _, err := runStatements(t, "-C", dir, "report", "cash-flow", "--period", "2025-03",
		"--format", "csv", "--output", filepath.Join("reports", "cash-flow.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Wrote reports/cash-flow.csv\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "reports", "cash-flow.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "row,item,current_period,year_to_date\n")

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "acme", entries[0].Book)
	assert.Equal(t, "cash_flow", entries[0].Statement)
	assert.Equal(t, "2025-03-01..2025-03-31", entries[0].Period)
	assert.Equal(t, 0, entries[0].Discrepancies)
}

func TestReport_TemplateOverride(t *testing.T) {
	dir := newProject(t)
	postSample(t, dir)

	st := template.Statement{
		Kind:    template.KindIncomeStatement,
		Title:   "Revenue Only",
		Columns: []template.Column{template.ColumnYearToDate},
		Lines: []template.Line{
			{Row: 1, Name: "Revenue", Codes: []string{"6001"}, Side: "credit", Basis: template.BasisMovement},
		},
	}
	path := filepath.Join(t.TempDir(), "revenue.yaml")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, template.Encode(f, st))
	require.NoError(t, f.Close())

	out, _, err := runStatements(t, "-C", dir, "report", "income-statement", "--period", "2025-03",
		"--format", "csv", "--template", path)
	require.NoError(t, err)
	assert.Equal(t, "row,item,year_to_date\n1,Revenue,1500.00\n", out)

	_, _, err = runStatements(t, "-C", dir, "report", "balance-sheet", "--period", "2025-03", "--template", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not balance_sheet")
}

func TestReport_TemplatesDirKindMismatch(t *testing.T) {
	dir := newProject(t)
	postSample(t, dir)

	// The income statement saved where the balance sheet belongs.
	data, err := os.ReadFile(filepath.Join(dir, "templates", "income_statement.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "balance_sheet.yaml"), data, 0o644))

	_, _, err = runStatements(t, "-C", dir, "report", "balance-sheet", "--period", "2025-03")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a income_statement template, not balance_sheet")

	_, _, err = runStatements(t, "-C", dir, "check")
	require.Error(t, err)
}

func TestReport_Errors(t *testing.T) {
	dir := newProject(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown statement", []string{"report", "trial-balance", "--period", "2025-03"}},
		{"no period", []string{"report", "balance-sheet"}},
		{"period with to", []string{"report", "balance-sheet", "--period", "2025-03", "--to", "2025-03-31"}},
		{"from after to", []string{"report", "balance-sheet", "--from", "2025-04-01", "--to", "2025-03-31"}},
		{"unknown format", []string{"report", "balance-sheet", "--period", "2025-03", "--format", "xlsx"}},
		{"unknown book", []string{"report", "balance-sheet", "--period", "2025-03", "--book", "globex"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runStatements(t, append([]string{"-C", dir}, tt.args...)...)
			assert.Error(t, err)
		})
	}

	_, _, err := runStatements(t, "-C", t.TempDir(), "report", "balance-sheet", "--period", "2025-03")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading project")
}

func TestLedgerSummary(t *testing.T) {
	dir := newProject(t)
	postSample(t, dir)

	out, _, err := runStatements(t, "-C", dir, "ledger", "summary", "--period", "2025-03")
	require.NoError(t, err)
	assert.Contains(t, out, "General Ledger (level 1)\nPeriod: 2025-03-01..2025-03-31\n")
	assert.Contains(t, out, "1002      Bank deposits")
	assert.NotContains(t, out, "Discrepancies:")

	out, _, err = runStatements(t, "-C", dir, "ledger", "summary", "--period", "2025-03", "--level", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "General Ledger (level 2)\n")
	assert.Contains(t, out, "222101")
}

func TestLedgerDetail(t *testing.T) {
	dir := newProject(t)
	postSample(t, dir)

	out, _, err := runStatements(t, "-C", dir, "ledger", "detail", "1001", "--from", "2025-01-01", "--to", "2025-03-31")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-02-05  2025-02-001  1001")
	assert.NotContains(t, out, "Stationery")

	out, _, err = runStatements(t, "-C", dir, "ledger", "detail", "1001", "--to", "2025-03-31", "--include-drafts")
	require.NoError(t, err)
	assert.Contains(t, out, "Stationery")

	_, _, err = runStatements(t, "-C", dir, "ledger", "detail", "9999", "--period", "2025-03")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account")
}

func TestCheck(t *testing.T) {
	dir := newProject(t)
	postSample(t, dir)

	out, _, err := runStatements(t, "-C", dir, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Book acme: 4 vouchers")
	assert.Contains(t, out, "no problems found")
}

func TestCheck_Problems(t *testing.T) {
	dir := newProject(t)
	postSample(t, dir)

	// An unbalanced voucher written around the journal service.
	journal := filepath.Join(dir, "books", "acme", "2025", "04", "journal.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(journal), 0o755))
	require.NoError(t, os.WriteFile(journal, []byte(
		"line_id,date,status,subject_code,summary,debit,credit\n"+
			"2025-04-001a,2025-04-02,approved,1002,Sale,100.00,\n"+
			"2025-04-001b,2025-04-02,approved,6001,Sale,,90.00\n"), 0o644))

	// A template that reuses a row number.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "income_statement.yaml"), []byte(
		"kind: income_statement\ntitle: Broken\nlines:\n"+
			"  - row: 1\n    name: Revenue\n    codes: [\"6001\"]\n"+
			"  - row: 1\n    name: Other revenue\n    codes: [\"6051\"]\n"), 0o644))

	out, _, err := runStatements(t, "-C", dir, "check")
	require.Error(t, err)
	assert.Equal(t, "2 problem(s) found", err.Error())
	assert.Contains(t, out, "journal 2025-04: invariant 1 [2025-04-001]: debits (100.00) != credits (90.00)")
	assert.Contains(t, out, "template income_statement: row 1: duplicate row number")
}
