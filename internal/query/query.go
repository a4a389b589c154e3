// Package query provides read-only projections of the time log for
// presentation layers. Nothing here writes to the store.
package query

import (
	"context"
	"time"

	"github.com/xolan/chronos/internal/entry"
	"github.com/xolan/chronos/internal/timeutil"
)

// Store is the read side of the entry and counter store.
type Store interface {
	QueryByDate(ctx context.Context, date string) ([]entry.TimeEntry, error)
	DrinksByDate(ctx context.Context, date string) ([]entry.DrinkCounter, error)
}

// DaySummary is everything a renderer needs to show one day.
type DaySummary struct {
	Date    string
	Entries []entry.TimeEntry
	Drinks  []entry.DrinkCounter
	Elapsed time.Duration
	Open    *entry.TimeEntry // the open entry, if it belongs to this day
}

// Facade answers read-only questions about the time log.
type Facade struct {
	store Store
	now   func() time.Time
	loc   *time.Location
}

// Option configures a Facade.
type Option func(*Facade)

// WithClock sets the source of "now" used for today and for open entries.
func WithClock(now func() time.Time) Option {
	return func(f *Facade) {
		f.now = now
	}
}

// WithLocation sets the timezone that decides what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(f *Facade) {
		f.loc = loc
	}
}

// New creates a Facade.
func New(store Store, opts ...Option) *Facade {
	f := &Facade{store: store, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Now returns the current time in the facade's location.
func (f *Facade) Now() time.Time {
	return f.now().In(f.loc)
}

// Location returns the timezone that decides what "today" is.
func (f *Facade) Location() *time.Location {
	return f.loc
}

// Today returns the current date as YYYY-MM-DD.
func (f *Facade) Today() string {
	return timeutil.FormatDate(f.Now())
}

// TodaySummary returns today's entries in insertion order.
func (f *Facade) TodaySummary(ctx context.Context) ([]entry.TimeEntry, error) {
	return f.store.QueryByDate(ctx, f.Today())
}

// ElapsedToday sums the durations of today's entries. The open entry counts
// up to now, so the value grows while an entry is open.
func (f *Facade) ElapsedToday(ctx context.Context) (time.Duration, error) {
	entries, err := f.TodaySummary(ctx)
	if err != nil {
		return 0, err
	}
	return f.elapsed(entries)
}

// Drinks returns the drink counters of a date.
func (f *Facade) Drinks(ctx context.Context, date string) ([]entry.DrinkCounter, error) {
	return f.store.DrinksByDate(ctx, date)
}

// Day builds the summary of one date.
func (f *Facade) Day(ctx context.Context, date string) (DaySummary, error) {
	entries, err := f.store.QueryByDate(ctx, date)
	if err != nil {
		return DaySummary{}, err
	}
	drinks, err := f.store.DrinksByDate(ctx, date)
	if err != nil {
		return DaySummary{}, err
	}
	elapsed, err := f.elapsed(entries)
	if err != nil {
		return DaySummary{}, err
	}

	summary := DaySummary{Date: date, Entries: entries, Drinks: drinks, Elapsed: elapsed}
	for i := range entries {
		if entries[i].IsOpen() {
			open := entries[i]
			summary.Open = &open
		}
	}
	return summary, nil
}

// elapsed sums entry durations.
func (f *Facade) elapsed(entries []entry.TimeEntry) (time.Duration, error) {
	now := f.now()
	var total time.Duration
	for _, e := range entries {
		d, err := Duration(e, now, f.loc)
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}

// Duration returns the length of e as of now. An open entry from a day
// other than today only counts until the end of its own day.
func Duration(e entry.TimeEntry, now time.Time, loc *time.Location) (time.Duration, error) {
	now = now.In(loc)
	if e.IsOpen() && e.Date != timeutil.FormatDate(now) {
		start, err := e.StartAt(loc)
		if err != nil {
			return 0, err
		}
		if end := timeutil.EndOfDay(start); end.Before(now) {
			now = end
		}
	}
	return e.Duration(now, loc)
}
