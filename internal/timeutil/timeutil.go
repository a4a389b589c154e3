// Package timeutil converts between wall-clock instants and the date and
// clock strings stored on time entries.
package timeutil

import (
	"fmt"
	"regexp"
	"time"

	"github.com/xolan/chronos/internal/entry"
)

var (
	isoPartialRe  = regexp.MustCompile(`^\d{4}-\d{1,2}$`)
	yearOnlyRe    = regexp.MustCompile(`^\d{4}$`)
	euroPartialRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)
)

// FormatDate returns the calendar day of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(entry.DateLayout)
}

// FormatClock returns the wall-clock time of t as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format(entry.ClockLayout)
}

// StartOfDay returns 00:00 of the day containing t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last storable minute (23:59) of the day containing t.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatHHMM formats a duration as hours:minutes, e.g. "01:00" or "12:05".
// Seconds are dropped; negative durations format as "00:00".
func FormatHHMM(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ParseDate parses a date in YYYY-MM-DD or DD/MM/YYYY format in loc and
// returns it at the start of the day.
func ParseDate(input string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if input == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty (use format YYYY-MM-DD, e.g., 2024-01-15)")
	}

	if t, err := time.ParseInLocation(entry.DateLayout, input, loc); err == nil {
		return StartOfDay(t), nil
	}
	if t, err := time.ParseInLocation("02/01/2006", input, loc); err == nil {
		return StartOfDay(t), nil
	}

	switch {
	case yearOnlyRe.MatchString(input):
		return time.Time{}, fmt.Errorf("incomplete date '%s': missing month and day (use format YYYY-MM-DD, e.g., %s-01-15)", input, input)
	case isoPartialRe.MatchString(input):
		return time.Time{}, fmt.Errorf("incomplete date '%s': missing day (use format YYYY-MM-DD, e.g., %s-15)", input, input)
	case euroPartialRe.MatchString(input):
		return time.Time{}, fmt.Errorf("incomplete date '%s': missing year (use format DD/MM/YYYY, e.g., %s/2024)", input, input)
	default:
		return time.Time{}, fmt.Errorf("invalid date '%s' (use format YYYY-MM-DD or DD/MM/YYYY)", input)
	}
}

// LoadLocation resolves a configured timezone name. Empty and "Local" map
// to the system timezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}
