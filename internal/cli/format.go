// Package cli provides the CLI presentation layer for chronos.
// It handles command-line output formatting and user interaction.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/xolan/chronos/internal/entry"
	"github.com/xolan/chronos/internal/query"
	"github.com/xolan/chronos/internal/stats"
	"github.com/xolan/chronos/internal/timeutil"
)

// Separator is the horizontal rule used in listings.
var Separator = strings.Repeat("-", 50)

// FormatEnd returns the end time of an entry, or "--:--" while it is open.
func FormatEnd(e entry.TimeEntry) string {
	if e.TimeEnd == nil {
		return "--:--"
	}
	return *e.TimeEnd
}

// FormatTaskID returns the task id of an entry, or "-" when unreconciled.
func FormatTaskID(e entry.TimeEntry) string {
	if e.TaskID == nil {
		return "-"
	}
	return *e.TaskID
}

// FormatEntry formats an entry on one line, e.g. "2024-01-15 [09:00 - 09:30] email".
func FormatEntry(e entry.TimeEntry) string {
	return fmt.Sprintf("%s [%s - %s] %s", e.Date, e.TimeStart, FormatEnd(e), e.Label)
}

// FormatStarted describes a freshly started entry.
func FormatStarted(e entry.TimeEntry) string {
	return fmt.Sprintf("Started: %s at %s", e.Label, e.TimeStart)
}

// FormatStopped describes a closed entry with its duration.
func FormatStopped(e entry.TimeEntry, loc *time.Location) string {
	d, err := e.Duration(time.Time{}, loc)
	if err != nil {
		return fmt.Sprintf("Stopped: %s (%s - %s)", e.Label, e.TimeStart, FormatEnd(e))
	}
	return fmt.Sprintf("Stopped: %s (%s - %s, %s)", e.Label, e.TimeStart, FormatEnd(e), timeutil.FormatHHMM(d))
}

// FormatDrinks formats counters like "coffee x2, water x1".
func FormatDrinks(counters []entry.DrinkCounter) string {
	parts := make([]string, 0, len(counters))
	for _, c := range counters {
		parts = append(parts, fmt.Sprintf("%s x%d", c.Kind, c.Quantity))
	}
	return strings.Join(parts, ", ")
}

// FormatDay renders the entries, total and drinks of a day. The open entry
// is measured up to now.
func FormatDay(day query.DaySummary, now time.Time, loc *time.Location) string {
	var b strings.Builder

	if len(day.Entries) == 0 {
		fmt.Fprintf(&b, "No entries found for %s\n", day.Date)
	} else {
		fmt.Fprintf(&b, "Entries for %s:\n", day.Date)
		b.WriteString(Separator + "\n")

		indexWidth := len(fmt.Sprintf("%d", len(day.Entries)))
		labelWidth := 0
		for _, e := range day.Entries {
			labelWidth = max(labelWidth, len(e.Label))
		}

		for i, e := range day.Entries {
			d, err := query.Duration(e, now, loc)
			elapsed := timeutil.FormatHHMM(d)
			if err != nil {
				elapsed = "??:??"
			}
			fmt.Fprintf(&b, "[%*d] %s - %s  %-*s  %s  %s\n",
				indexWidth, i+1,
				e.TimeStart, FormatEnd(e),
				labelWidth, e.Label,
				elapsed, FormatTaskID(e))
		}

		b.WriteString(Separator + "\n")
		fmt.Fprintf(&b, "Total: %s\n", timeutil.FormatHHMM(day.Elapsed))
	}

	if day.Open != nil {
		fmt.Fprintf(&b, "Running: %s since %s\n", day.Open.Label, day.Open.TimeStart)
	}
	if len(day.Drinks) > 0 {
		fmt.Fprintf(&b, "Drinks: %s\n", FormatDrinks(day.Drinks))
	}
	return b.String()
}

// FormatBreakdown renders grouped totals under a title, one group per line.
func FormatBreakdown(title string, breakdowns []stats.Breakdown) string {
	if len(breakdowns) == 0 {
		return ""
	}

	keyWidth := 0
	for _, bd := range breakdowns {
		keyWidth = max(keyWidth, len(bd.Key))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", title)
	for _, bd := range breakdowns {
		fmt.Fprintf(&b, "  %-*s  %s  (%d %s)\n", keyWidth, bd.Key, timeutil.FormatHHMM(bd.Duration),
			bd.EntryCount, Pluralize("entry", bd.EntryCount))
	}
	return b.String()
}

// Pluralize returns the singular or plural form of a word based on count
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	if strings.HasSuffix(word, "y") {
		return strings.TrimSuffix(word, "y") + "ies"
	}
	return word + "s"
}
