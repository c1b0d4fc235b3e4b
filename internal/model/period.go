package model

import (
	"fmt"
	"time"
)

// DateFormat is the on-disk and CLI date layout.
const DateFormat = "2006-01-02"

// Window is an inclusive date range. A zero Start means unbounded below,
// a zero End unbounded above.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window (dates only).
func (w Window) Contains(t time.Time) bool {
	d := Day(t)
	if !w.Start.IsZero() && d.Before(Day(w.Start)) {
		return false
	}
	if !w.End.IsZero() && d.After(Day(w.End)) {
		return false
	}
	return true
}

// Overlaps reports whether w and o share at least one day.
func (w Window) Overlaps(o Window) bool {
	if !w.Start.IsZero() && !o.End.IsZero() && Day(o.End).Before(Day(w.Start)) {
		return false
	}
	if !w.End.IsZero() && !o.Start.IsZero() && Day(o.Start).After(Day(w.End)) {
		return false
	}
	return true
}

func (w Window) String() string {
	start, end := "…", "…"
	if !w.Start.IsZero() {
		start = w.Start.Format(DateFormat)
	}
	if !w.End.IsZero() {
		end = w.End.Format(DateFormat)
	}
	return start + ".." + end
}

// Until returns the window of everything up to and including end.
func Until(end time.Time) Window {
	return Window{End: end}
}

// Before returns the window of everything strictly before t.
func Before(t time.Time) Window {
	return Window{End: Day(t).AddDate(0, 0, -1)}
}

// Month returns the calendar month window.
func Month(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 1, -1)}
}

// ParseMonth parses "YYYY-MM" into a month window.
func ParseMonth(s string) (Window, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Window{}, fmt.Errorf("parsing month %q: %w", s, err)
	}
	return Month(t.Year(), t.Month()), nil
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FiscalYearStart returns the first day of the fiscal year containing t.
// yearStart is "MM-DD"; an empty value means January 1st.
func FiscalYearStart(t time.Time, yearStart string) (time.Time, error) {
	month, day := time.January, 1
	if yearStart != "" {
		md, err := time.Parse("01-02", yearStart)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing fiscal year start %q: %w", yearStart, err)
		}
		month, day = md.Month(), md.Day()
	}
	start := time.Date(t.Year(), month, day, 0, 0, 0, 0, time.UTC)
	if Day(t).Before(start) {
		start = start.AddDate(-1, 0, 0)
	}
	return start, nil
}
