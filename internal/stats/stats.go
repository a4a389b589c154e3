// Package stats aggregates the time entries of a day.
package stats

import (
	"sort"
	"time"

	"github.com/xolan/chronos/internal/entry"
	"github.com/xolan/chronos/internal/query"
)

// Unreconciled is the group key of entries without a task id.
const Unreconciled = "(no task id)"

// Breakdown contains the totals of one group of entries
type Breakdown struct {
	Key        string
	Duration   time.Duration
	EntryCount int
}

// Statistics contains aggregated totals for a set of entries
type Statistics struct {
	Total        time.Duration
	EntryCount   int
	Reconciled   int
	Unreconciled int
}

// Calculate totals entries. The open entry counts up to now. Entries
// whose times cannot be parsed are skipped.
func Calculate(entries []entry.TimeEntry, now time.Time, loc *time.Location) Statistics {
	var s Statistics
	for _, e := range entries {
		d, err := query.Duration(e, now, loc)
		if err != nil {
			continue
		}
		s.Total += d
		s.EntryCount++
		if e.IsReconciled() {
			s.Reconciled++
		} else {
			s.Unreconciled++
		}
	}
	return s
}

// ByTask groups entries by task id, longest first. Entries without a task
// id are grouped under Unreconciled.
func ByTask(entries []entry.TimeEntry, now time.Time, loc *time.Location) []Breakdown {
	return group(entries, now, loc, func(e entry.TimeEntry) string {
		if e.TaskID == nil {
			return Unreconciled
		}
		return *e.TaskID
	})
}

// ByLabel groups entries by label, longest first.
func ByLabel(entries []entry.TimeEntry, now time.Time, loc *time.Location) []Breakdown {
	return group(entries, now, loc, func(e entry.TimeEntry) string {
		return e.Label
	})
}

func group(entries []entry.TimeEntry, now time.Time, loc *time.Location, key func(entry.TimeEntry) string) []Breakdown {
	if len(entries) == 0 {
		return []Breakdown{}
	}

	groups := make(map[string]*Breakdown)
	for _, e := range entries {
		d, err := query.Duration(e, now, loc)
		if err != nil {
			continue
		}

		k := key(e)
		if _, exists := groups[k]; !exists {
			groups[k] = &Breakdown{Key: k}
		}
		groups[k].Duration += d
		groups[k].EntryCount++
	}

	breakdowns := make([]Breakdown, 0, len(groups))
	for _, b := range groups {
		breakdowns = append(breakdowns, *b)
	}

	// Longest first, ties by key so the order is stable
	sort.Slice(breakdowns, func(i, j int) bool {
		if breakdowns[i].Duration != breakdowns[j].Duration {
			return breakdowns[i].Duration > breakdowns[j].Duration
		}
		return breakdowns[i].Key < breakdowns[j].Key
	})

	return breakdowns
}
