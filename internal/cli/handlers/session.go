package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/session"
	"github.com/xolan/chronos/internal/storage"
)

// StartEntry opens a new entry now, closing the running one.
func StartEntry(ctx context.Context, deps *cli.Deps, label string) {
	tr, err := deps.Session.StartNow(ctx, label)
	report(deps, tr)
	if err != nil {
		sessionError(deps, "start entry", "chronos start <label>", err)
		return
	}
}

// StopEntry closes the running entry. Stopping while idle is not an error.
func StopEntry(ctx context.Context, deps *cli.Deps) {
	stopped, err := deps.Session.StopNow(ctx)
	if err != nil {
		sessionError(deps, "stop entry", "chronos stop", err)
		return
	}
	if stopped == nil {
		_, _ = fmt.Fprintln(deps.Stdout, "No entry is running")
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout, cli.FormatStopped(*stopped, deps.Services.Location))
}

// RetroEntry starts an entry back-dated by minutes.
func RetroEntry(ctx context.Context, deps *cli.Deps, minutes int, label string) {
	tr, err := deps.Session.Retro(ctx, minutes, label)
	report(deps, tr)
	if err != nil {
		sessionError(deps, "start entry", "chronos retro <minutes> <label>", err)
		return
	}
}

// ParseMinutes parses the offset argument of retro.
func ParseMinutes(s string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid minutes '%s': must be a whole number", s)
	}
	if minutes < 0 {
		return 0, session.ErrNegativeOffset
	}
	if int64(minutes) > session.MaxRetroMinutes {
		return 0, fmt.Errorf("%w: at most %d minutes", session.ErrOffsetTooLarge, session.MaxRetroMinutes)
	}
	return minutes, nil
}

func report(deps *cli.Deps, tr session.Transition) {
	if tr.Stopped != nil {
		_, _ = fmt.Fprintln(deps.Stdout, cli.FormatStopped(*tr.Stopped, deps.Services.Location))
	}
	if tr.Started != nil {
		_, _ = fmt.Fprintln(deps.Stdout, cli.FormatStarted(*tr.Started))
	}
}

func sessionError(deps *cli.Deps, op, usage string, err error) {
	switch {
	case errors.Is(err, session.ErrEmptyLabel):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Label cannot be empty")
		_, _ = fmt.Fprintf(deps.Stderr, "Usage: %s\n", usage)
	case errors.Is(err, session.ErrNegativeOffset):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Minutes cannot be negative")
		_, _ = fmt.Fprintf(deps.Stderr, "Usage: %s\n", usage)
	case errors.Is(err, session.ErrOffsetTooLarge):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Minutes offset is too large")
		_, _ = fmt.Fprintf(deps.Stderr, "Usage: %s\n", usage)
	case errors.Is(err, session.ErrInvalidTimeRange):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: The running entry would end before it started")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use a smaller offset, or stop the running entry first")
	case errors.Is(err, session.ErrLoopClosed):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Session is shutting down")
	default:
		storageError(deps, op, err)
		return
	}
	deps.Exit(1)
}

// storageError reports an unexpected failure and exits.
func storageError(deps *cli.Deps, op string, err error) {
	_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to %s\n", op)
	_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	var serr *storage.Error
	if errors.As(err, &serr) {
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that the database is writable: %s\n", deps.Services.Store.Path())
	}
	deps.Exit(1)
}
