package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/natefinch/atomic"

	"github.com/cleared-dev/statements/internal/money"
	"github.com/cleared-dev/statements/internal/template"
)

const (
	nameWidth   = 52
	amountWidth = 16
)

var columnLabels = map[template.Column]string{
	template.ColumnEndingBalance:   "Ending balance",
	template.ColumnBeginningOfYear: "Beginning of year",
	template.ColumnCurrentPeriod:   "Current period",
	template.ColumnYearToDate:      "Year to date",
	template.ColumnPriorYear:       "Prior year",
}

// ColumnLabel returns the display heading of col.
func ColumnLabel(col template.Column) string {
	if l, ok := columnLabels[col]; ok {
		return l
	}
	return string(col)
}

// WriteText renders res as an aligned table followed by any failed checks,
// issues and warnings.
func WriteText(w io.Writer, res *Result) error {
	var b strings.Builder
	red := color.New(color.FgRed, color.Bold)

	fmt.Fprintf(&b, "%s\n", res.Title)
	fmt.Fprintf(&b, "Period: %s\n\n", res.Period)

	head := fmt.Sprintf("%4s  %-*s", "Row", nameWidth, "Item")
	for _, col := range res.Columns {
		head += fmt.Sprintf("  %*s", amountWidth, ColumnLabel(col))
	}
	b.WriteString(strings.TrimRight(head, " ") + "\n")

	for _, row := range res.Rows {
		l := row.Line
		if row.Values == nil {
			fmt.Fprintf(&b, "%4d  %s\n", l.Row, l.Name)
			continue
		}
		name := l.Name
		if !l.Total {
			name = "  " + name
		}
		line := fmt.Sprintf("%4d  %-*s", l.Row, nameWidth, name)
		for _, col := range res.Columns {
			line += fmt.Sprintf("  %*s", amountWidth, money.FormatOrDash(row.Values[col]))
		}
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}

	if len(res.Discrepancies) > 0 {
		b.WriteString("\nDiscrepancies:\n")
		for _, d := range res.Discrepancies {
			fmt.Fprintf(&b, "  %s\n", red.Sprint(d.String()))
		}
	}
	if len(res.Issues) > 0 {
		b.WriteString("\nIssues:\n")
		for _, is := range res.Issues {
			fmt.Fprintf(&b, "  %s\n", is)
		}
	}
	if len(res.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, warn := range res.Warnings {
			fmt.Fprintf(&b, "  %s\n", warn)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCSV renders res as CSV with one record per line. Header lines have
// empty amounts.
func WriteCSV(w io.Writer, res *Result) error {
	cw := csv.NewWriter(w)

	header := []string{"row", "item"}
	for _, col := range res.Columns {
		header = append(header, string(col))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range res.Rows {
		rec := []string{strconv.Itoa(row.Line.Row), row.Line.Name}
		for _, col := range res.Columns {
			if row.Values == nil {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, money.Format(row.Values[col]))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", row.Line.Row, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Format selects an output rendering.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
)

// Write renders res in format f.
func Write(w io.Writer, res *Result, f Format) error {
	switch f {
	case FormatText, "":
		return WriteText(w, res)
	case FormatCSV:
		return WriteCSV(w, res)
	}
	return fmt.Errorf("unknown format %q", f)
}

// WriteFile renders res to path, replacing any existing file atomically.
func WriteFile(path string, res *Result, f Format) error {
	var buf bytes.Buffer
	if err := Write(&buf, res, f); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
