// Package session owns the "open entry": the single time entry that has no
// end time yet. It implements start, stop and retro as a two-state machine
// (idle, active) on top of the entry store.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/xolan/chronos/internal/entry"
	"github.com/xolan/chronos/internal/storage"
	"github.com/xolan/chronos/internal/timeutil"
)

var (
	// ErrInvalidTimeRange is returned when an operation would close an entry
	// before it started. Nothing is written.
	ErrInvalidTimeRange = errors.New("end time before start time")
	// ErrEmptyLabel is returned when starting an entry without a label.
	ErrEmptyLabel = errors.New("label cannot be empty")
	// ErrNegativeOffset is returned when a retro offset is negative.
	ErrNegativeOffset = errors.New("retro offset cannot be negative")
	// ErrOffsetTooLarge is returned when a retro offset does not fit a
	// time.Duration.
	ErrOffsetTooLarge = errors.New("retro offset too large")
)

// MaxRetroMinutes is the largest offset Retro accepts.
const MaxRetroMinutes = math.MaxInt64 / int64(time.Minute)

// Store is the subset of the entry store the engine mutates.
type Store interface {
	Insert(ctx context.Context, date, timeStart, label string) (int64, error)
	CloseOpen(ctx context.Context, id int64, timeEnd string) error
	LatestOpen(ctx context.Context) (*entry.TimeEntry, error)
}

// State is the engine's whole mutable state. Open is nil while idle.
type State struct {
	Open *entry.TimeEntry
}

// Active reports whether an entry is open.
func (s State) Active() bool {
	return s.Open != nil
}

// Transition describes the effect of a start: the entry that was opened and,
// if one was open before, the entry that was closed to make room for it.
type Transition struct {
	Started *entry.TimeEntry
	Stopped *entry.TimeEntry
}

// Engine implements the session state machine. Calls must be serialized by
// the caller; use Loop when more than one goroutine needs to drive it.
type Engine struct {
	store  Store
	state  State
	now    func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the source of "now" used by StopNow, StartNow and Retro.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLocation sets the timezone that decides calendar days and clock times.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		e.loc = loc
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an idle engine. Call Recover to adopt an entry left open by a
// previous process.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		now:    time.Now,
		loc:    time.Local,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recover adopts the most recent entry without an end time, across all
// dates, as the open entry. It returns the adopted entry or nil if every
// entry is closed.
func (e *Engine) Recover(ctx context.Context) (*entry.TimeEntry, error) {
	open, err := e.store.LatestOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("recover open entry: %w", err)
	}
	e.state.Open = open
	if open != nil {
		e.logger.Info("recovered open entry", "id", open.ID, "date", open.Date, "start", open.TimeStart, "label", open.Label)
	}
	return copyEntry(open), nil
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return State{Open: copyEntry(e.state.Open)}
}

// Now returns the engine's current time in its location.
func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

// Stale reports whether the open entry started on an earlier day than today.
func (e *Engine) Stale() bool {
	if e.state.Open == nil {
		return false
	}
	return e.state.Open.Date != timeutil.FormatDate(e.Now())
}

// Start opens a new entry at the given time. An entry that is already open
// is closed first, ending at the new entry's start. If closing fails nothing
// new is inserted.
func (e *Engine) Start(ctx context.Context, at time.Time, label string) (Transition, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Transition{}, ErrEmptyLabel
	}
	at = e.normalize(at)

	var tr Transition
	if e.state.Open != nil {
		stopped, err := e.closeOpen(ctx, at)
		if err != nil {
			return Transition{}, err
		}
		tr.Stopped = stopped
	}

	date := timeutil.FormatDate(at)
	clock := timeutil.FormatClock(at)
	id, err := e.store.Insert(ctx, date, clock, label)
	if err != nil {
		return tr, fmt.Errorf("start entry: %w", err)
	}

	started := entry.TimeEntry{ID: id, Date: date, TimeStart: clock, Label: label}
	e.state.Open = &started
	e.logger.Debug("entry started", "id", id, "date", date, "start", clock, "label", label)

	tr.Started = copyEntry(&started)
	return tr, nil
}

// StartNow starts an entry at the engine's current time.
func (e *Engine) StartNow(ctx context.Context, label string) (Transition, error) {
	return e.Start(ctx, e.now(), label)
}

// Stop closes the open entry at the given time and returns it. Stopping
// while idle is a no-op and returns nil.
func (e *Engine) Stop(ctx context.Context, at time.Time) (*entry.TimeEntry, error) {
	if e.state.Open == nil {
		return nil, nil
	}
	return e.closeOpen(ctx, e.normalize(at))
}

// StopNow stops the open entry at the engine's current time.
func (e *Engine) StopNow(ctx context.Context) (*entry.TimeEntry, error) {
	return e.Stop(ctx, e.now())
}

// Retro starts an entry back-dated by minutesAgo minutes. A start that
// would precede the open entry's own start is rejected with
// ErrInvalidTimeRange, an offset above MaxRetroMinutes with
// ErrOffsetTooLarge.
func (e *Engine) Retro(ctx context.Context, minutesAgo int, label string) (Transition, error) {
	if minutesAgo < 0 {
		return Transition{}, ErrNegativeOffset
	}
	if int64(minutesAgo) > MaxRetroMinutes {
		return Transition{}, fmt.Errorf("%w: %d minutes", ErrOffsetTooLarge, minutesAgo)
	}
	now := e.now()
	at := now.Add(-time.Duration(minutesAgo) * time.Minute)
	if at.After(now) {
		return Transition{}, fmt.Errorf("%w: %d minutes", ErrOffsetTooLarge, minutesAgo)
	}
	return e.Start(ctx, at, label)
}

// Do runs fn with the engine. It exists so that callers holding a
// Controller can run multi-step work the same way on Engine and Loop.
func (e *Engine) Do(ctx context.Context, fn func(ctx context.Context, e *Engine) error) error {
	return fn(ctx, e)
}

// closeOpen ends the open entry at. The range check happens before any
// write. On ErrNotFound the row vanished underneath us, so the pointer is
// dropped to stay consistent with the store.
func (e *Engine) closeOpen(ctx context.Context, at time.Time) (*entry.TimeEntry, error) {
	open := *e.state.Open

	end, err := e.endClock(open, at)
	if err != nil {
		return nil, err
	}

	if err := e.store.CloseOpen(ctx, open.ID, end); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.state.Open = nil
		}
		return nil, fmt.Errorf("stop entry %d: %w", open.ID, err)
	}

	open.TimeEnd = &end
	e.state.Open = nil
	e.logger.Debug("entry stopped", "id", open.ID, "end", end)
	return &open, nil
}

// endClock returns the stored end time for closing open at. Time columns
// carry no date, so an entry closed on a later day ends at 23:59 of its own day.
func (e *Engine) endClock(open entry.TimeEntry, at time.Time) (string, error) {
	start, err := open.StartAt(e.loc)
	if err != nil {
		return "", err
	}
	if at.Before(start) {
		return "", fmt.Errorf("%w: entry %d started %s %s, end %s", ErrInvalidTimeRange,
			open.ID, open.Date, open.TimeStart, at.Format("2006-01-02 15:04"))
	}
	if !timeutil.SameDay(at, start) {
		return timeutil.FormatClock(timeutil.EndOfDay(start)), nil
	}
	return timeutil.FormatClock(at), nil
}

func (e *Engine) normalize(at time.Time) time.Time {
	return at.In(e.loc).Truncate(time.Minute)
}

func copyEntry(e *entry.TimeEntry) *entry.TimeEntry {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
