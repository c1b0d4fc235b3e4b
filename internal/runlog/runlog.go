// Package runlog keeps an append-only CSV record of generated reports.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the report log.
type Entry struct {
	Timestamp     time.Time
	RunID         string
	Book          string
	Statement     string
	Period        string
	Discrepancies int
	Issues        int
}

// NewEntry returns an entry stamped with the current time and a fresh run id.
func NewEntry(book, statement, period string, discrepancies, issues int) Entry {
	return Entry{
		Timestamp:     time.Now().UTC().Truncate(time.Second),
		RunID:         uuid.NewString(),
		Book:          book,
		Statement:     statement,
		Period:        period,
		Discrepancies: discrepancies,
		Issues:        issues,
	}
}

// Header is the CSV header for report-log.csv.
const Header = "timestamp,run_id,book,statement,period,discrepancies,issues"

const (
	numFields        = 7
	logDir           = "logs"
	logFile          = "logs/report-log.csv"
	colTimestamp     = 0
	colRunID         = 1
	colBook          = 2
	colStatement     = 3
	colPeriod        = 4
	colDiscrepancies = 5
	colIssues        = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colBook] = e.Book
	row[colStatement] = e.Statement
	row[colPeriod] = e.Period
	row[colDiscrepancies] = strconv.Itoa(e.Discrepancies)
	row[colIssues] = strconv.Itoa(e.Issues)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	if _, err := uuid.Parse(record[colRunID]); err != nil {
		return Entry{}, fmt.Errorf("parsing run id %q: %w", record[colRunID], err)
	}
	discrepancies, err := strconv.Atoi(record[colDiscrepancies])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing discrepancies %q: %w", record[colDiscrepancies], err)
	}
	issues, err := strconv.Atoi(record[colIssues])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing issues %q: %w", record[colIssues], err)
	}

	return Entry{
		Timestamp:     ts,
		RunID:         record[colRunID],
		Book:          record[colBook],
		Statement:     record[colStatement],
		Period:        record[colPeriod],
		Discrepancies: discrepancies,
		Issues:        issues,
	}, nil
}

// Append writes entries to <root>/logs/report-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening report log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/report-log.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening report log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading report log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
