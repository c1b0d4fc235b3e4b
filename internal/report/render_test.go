package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/template"
)

func init() {
	color.NoColor = true
}

func cells(col template.Column, v string) map[template.Column]decimal.Decimal {
	return map[template.Column]decimal.Decimal{col: dec(v)}
}

func TestWriteText_IncomeStatement(t *testing.T) {
	res := generate(t, sampleBook(), Request{Kind: template.KindIncomeStatement})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, res))

	g := goldie.New(t)
	g.Assert(t, "income_statement", buf.Bytes())
}

func TestWriteText_Discrepancy(t *testing.T) {
	end := template.ColumnEndingBalance
	res := &Result{
		Kind:    template.KindBalanceSheet,
		Title:   "Cash Check",
		Period:  march,
		Columns: []template.Column{end},
		Rows: []Row{
			{Line: template.Line{Row: 1, Name: "Assets"}},
			{Line: template.Line{Row: 2, Name: "Cash", Codes: []string{"1001"}}, Values: cells(end, "7400")},
			{Line: template.Line{Row: 3, Name: "Total assets", Formula: "2", Total: true}, Values: cells(end, "7400")},
			{Line: template.Line{Row: 4, Name: "Paid-in capital", Codes: []string{"4001"}}, Values: cells(end, "6000")},
			{Line: template.Line{Row: 5, Name: "Total equity", Formula: "4", Total: true}, Values: cells(end, "6000")},
		},
		Issues:   []model.Issue{{Ref: "1002", Reason: "not bound by any line of balance_sheet"}},
		Warnings: []string{"formula rows [9] are unused"},
	}
	d, failed := Compare("assets = equity", end, dec("7400"), dec("6000"))
	require.True(t, failed)
	res.Discrepancies = append(res.Discrepancies, d)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, res))

	g := goldie.New(t)
	g.Assert(t, "discrepancy", buf.Bytes())
}

func TestWriteCSV(t *testing.T) {
	end := template.ColumnEndingBalance
	res := &Result{
		Columns: []template.Column{end, template.ColumnBeginningOfYear},
		Rows: []Row{
			{Line: template.Line{Row: 1, Name: "Assets"}},
			{Line: template.Line{Row: 2, Name: "Cash, bank", Codes: []string{"1001"}}, Values: cells(end, "7400")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res))
	assert.Equal(t,
		"row,item,ending_balance,beginning_of_year\n"+
			"1,Assets,,\n"+
			"2,\"Cash, bank\",7400.00,0.00\n",
		buf.String())
}

func TestWriteFile(t *testing.T) {
	res := generate(t, sampleBook(), Request{Kind: template.KindIncomeStatement})
	path := filepath.Join(t.TempDir(), "is.csv")

	require.NoError(t, WriteFile(path, res, FormatCSV))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "15,Net profit,500.00,1200.00,200.00\n")

	assert.Error(t, WriteFile(path, res, Format("xlsx")))
}

func TestCompareTolerance(t *testing.T) {
	_, failed := Compare("c", template.ColumnCurrentPeriod, dec("100.004"), dec("100"))
	assert.False(t, failed)
	_, failed = Compare("c", template.ColumnCurrentPeriod, dec("100.01"), dec("100"))
	assert.True(t, failed)
}

func TestColumnLabel(t *testing.T) {
	assert.Equal(t, "Year to date", ColumnLabel(template.ColumnYearToDate))
	assert.Equal(t, "custom", ColumnLabel(template.Column("custom")))
}
