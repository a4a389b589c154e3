// Package entry defines the rows recorded by chronos: time-log entries and
// per-day drink counters.
package entry

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the storage format of TimeEntry.Date.
	DateLayout = "2006-01-02"
	// ClockLayout is the storage format of TimeEntry.TimeStart and TimeEntry.TimeEnd.
	ClockLayout = "15:04"
)

// TimeEntry is one recorded interval of activity.
// TimeEnd is nil while the interval is open; TaskID is nil until reconciled.
type TimeEntry struct {
	ID        int64   `json:"id" yaml:"id"`
	Date      string  `json:"date" yaml:"date"`
	TimeStart string  `json:"time_start" yaml:"time_start"`
	TimeEnd   *string `json:"time_end" yaml:"time_end"`
	Label     string  `json:"label" yaml:"label"`
	TaskID    *string `json:"task_id" yaml:"task_id"`
	Exported  bool    `json:"exported" yaml:"exported"`
}

// IsOpen reports whether the entry has no end time yet.
func (e TimeEntry) IsOpen() bool {
	return e.TimeEnd == nil
}

// IsReconciled reports whether a task id was assigned.
func (e TimeEntry) IsReconciled() bool {
	return e.TaskID != nil
}

// StartAt returns the wall-clock start of the entry in loc.
func (e TimeEntry) StartAt(loc *time.Location) (time.Time, error) {
	return parseDateClock(e.Date, e.TimeStart, loc)
}

// EndAt returns the wall-clock end of the entry in loc.
// The boolean is false for open entries.
func (e TimeEntry) EndAt(loc *time.Location) (time.Time, bool, error) {
	if e.TimeEnd == nil {
		return time.Time{}, false, nil
	}
	t, err := parseDateClock(e.Date, *e.TimeEnd, loc)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Duration returns the length of the entry at minute resolution.
// Open entries run until now; an entry that would end before it starts
// contributes zero.
func (e TimeEntry) Duration(now time.Time, loc *time.Location) (time.Duration, error) {
	start, err := e.StartAt(loc)
	if err != nil {
		return 0, err
	}
	end, closed, err := e.EndAt(loc)
	if err != nil {
		return 0, err
	}
	if !closed {
		end = now.In(loc).Truncate(time.Minute)
	}
	if end.Before(start) {
		return 0, nil
	}
	return end.Sub(start), nil
}

// DrinkCounter is the tally of one drink kind on one day.
type DrinkCounter struct {
	Date     string `json:"date" yaml:"date"`
	Kind     string `json:"kind" yaml:"kind"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

func parseDateClock(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid entry time %q %q: %w", date, clock, err)
	}
	return t, nil
}
