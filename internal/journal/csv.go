package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cleared-dev/statements/internal/id"
	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/money"
)

// Header is the CSV header for journal.csv.
const Header = "line_id,date,status,subject_code,summary,debit,credit"

const (
	numFields  = 7
	colLineID  = 0
	colDate    = 1
	colStatus  = 2
	colSubject = 3
	colSummary = 4
	colDebit   = 5
	colCredit  = 6
)

// ReadVouchers reads journal.csv and groups its lines into vouchers, in the
// order each voucher first appears. Amounts that are not valid non-negative
// decimals are read as zero and recorded on the voucher's Issues.
func ReadVouchers(r io.Reader) ([]model.Voucher, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var vouchers []model.Voucher
	index := make(map[string]int)
	for i, rec := range records[1:] {
		row, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		vid := id.VoucherOf(row.LineID)
		n, seen := index[vid]
		if !seen {
			n = len(vouchers)
			index[vid] = n
			vouchers = append(vouchers, model.Voucher{ID: vid, Date: row.Date, Status: row.Status})
		}
		v := &vouchers[n]
		if seen && (!v.Date.Equal(row.Date) || v.Status != row.Status) {
			v.Issues = append(v.Issues, model.Issue{
				Ref:    row.LineID,
				Reason: fmt.Sprintf("line disagrees with voucher header (date %s, status %s)", v.Date.Format(model.DateFormat), v.Status),
			})
		}
		v.Lines = append(v.Lines, row.Line)
		v.Issues = append(v.Issues, row.Issues...)
	}
	return vouchers, nil
}

// WriteVouchers writes vouchers to a journal.csv writer (including header).
func WriteVouchers(w io.Writer, vouchers []model.Voucher) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, v := range vouchers {
		for i, row := range MarshalVoucher(v) {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing voucher %s line %d: %w", v.ID, i, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendVouchers appends vouchers to an existing journal.csv writer (no header).
func AppendVouchers(w io.Writer, vouchers []model.Voucher) error {
	cw := csv.NewWriter(w)

	for _, v := range vouchers {
		for i, row := range MarshalVoucher(v) {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing voucher %s line %d: %w", v.ID, i, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalVoucher converts a Voucher to CSV rows, one per line.
func MarshalVoucher(v model.Voucher) [][]string {
	rows := make([][]string, 0, len(v.Lines))
	for i, l := range v.Lines {
		row := make([]string, numFields)
		row[colLineID] = id.FormatLineID(v.ID, i)
		row[colDate] = v.Date.Format(model.DateFormat)
		row[colStatus] = string(v.Status)
		row[colSubject] = l.SubjectCode
		row[colSummary] = l.Summary
		if !l.Debit.IsZero() {
			row[colDebit] = l.Debit.StringFixed(2)
		}
		if !l.Credit.IsZero() {
			row[colCredit] = l.Credit.StringFixed(2)
		}
		rows = append(rows, row)
	}
	return rows
}

// Row is one decoded journal.csv line.
type Row struct {
	LineID string
	Date   time.Time
	Status model.VoucherStatus
	Line   model.VoucherLine
	Issues []model.Issue
}

// UnmarshalLine converts a CSV row to a Row. Structural problems (field count,
// date) are errors; amount problems become issues.
func UnmarshalLine(record []string) (Row, error) {
	if len(record) != numFields {
		return Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if record[colLineID] == "" {
		return Row{}, fmt.Errorf("empty line_id")
	}

	date, err := time.Parse(model.DateFormat, record[colDate])
	if err != nil {
		return Row{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	row := Row{
		LineID: record[colLineID],
		Date:   date,
		Status: model.VoucherStatus(record[colStatus]),
		Line: model.VoucherLine{
			SubjectCode: record[colSubject],
			Summary:     record[colSummary],
		},
	}

	var ok bool
	if row.Line.Debit, ok = money.Parse(record[colDebit]); !ok {
		row.Issues = append(row.Issues, amountIssue(row.LineID, "debit", record[colDebit]))
	}
	if row.Line.Credit, ok = money.Parse(record[colCredit]); !ok {
		row.Issues = append(row.Issues, amountIssue(row.LineID, "credit", record[colCredit]))
	}
	return row, nil
}

func amountIssue(ref, field, value string) model.Issue {
	return model.Issue{
		Ref:    ref,
		Field:  field,
		Value:  value,
		Reason: "not a non-negative decimal, read as zero",
	}
}
