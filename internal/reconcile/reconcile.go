// Package reconcile assigns external task ids to the closed entries of a
// day. Entries are resolved one at a time, in insertion order, so a task id
// assigned early in a pass is offered as the suggestion for later entries
// with the same label.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xolan/chronos/internal/entry"
)

// ErrAbandoned is returned by a Prompter when the user gives up. It ends the
// pass normally: entries already reconciled stay reconciled.
var ErrAbandoned = errors.New("reconciliation abandoned")

// Store is the subset of the entry store reconciliation needs.
type Store interface {
	QueryUnlabeledClosed(ctx context.Context, date string) ([]entry.TimeEntry, error)
	FindLastTaskIDForLabel(ctx context.Context, label string) (string, bool, error)
	SetTaskID(ctx context.Context, id int64, taskID string) error
}

// Stopper closes the open entry before a pass so it cannot leak into it.
type Stopper interface {
	StopNow(ctx context.Context) (*entry.TimeEntry, error)
}

// Prompt is what a Prompter is asked to resolve.
type Prompt struct {
	Entry         entry.TimeEntry
	Suggestion    string
	HasSuggestion bool
	Position      int // 1-based position within the pass
	Total         int
	Attempt       int // 1 on the first ask, incremented after each empty answer
}

// Prompter obtains a task id for one entry. It blocks until the caller
// supplies a value. Returning an empty string asks again; returning
// ErrAbandoned ends the pass.
type Prompter interface {
	TaskID(ctx context.Context, p Prompt) (string, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, p Prompt) (string, error)

// TaskID calls f.
func (f PrompterFunc) TaskID(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}

// Assignment records one reconciled entry.
type Assignment struct {
	Entry  entry.TimeEntry
	TaskID string
	Reused bool // the suggestion was accepted
}

// Report summarizes a pass.
type Report struct {
	Date       string
	Stopped    *entry.TimeEntry
	Reconciled []Assignment
	Remaining  []entry.TimeEntry
	Abandoned  bool
}

// Complete reports whether every candidate of the pass got a task id.
func (r Report) Complete() bool {
	return !r.Abandoned && len(r.Remaining) == 0
}

// Engine runs reconciliation passes.
type Engine struct {
	store   Store
	stopper Stopper
	logger  *slog.Logger
}

// New creates an Engine. logger may be nil.
func New(store Store, stopper Stopper, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{store: store, stopper: stopper, logger: logger}
}

// Reconcile stops the open entry, then asks prompter for a task id for every
// closed entry of date that has none. It does not move on to the next entry
// until a non-empty id was stored for the current one.
//
// Abandoning (ErrAbandoned or a cancelled ctx) returns a report with
// Abandoned set and a nil error.
func (e *Engine) Reconcile(ctx context.Context, date string, prompter Prompter) (Report, error) {
	report := Report{Date: date}

	stopped, err := e.stopper.StopNow(ctx)
	if err != nil {
		return report, fmt.Errorf("stop open entry: %w", err)
	}
	report.Stopped = stopped

	candidates, err := e.store.QueryUnlabeledClosed(ctx, date)
	if err != nil {
		return report, fmt.Errorf("query unreconciled entries: %w", err)
	}
	e.logger.Info("reconciliation started", "date", date, "entries", len(candidates))

	for i, candidate := range candidates {
		suggestion, ok, err := e.store.FindLastTaskIDForLabel(ctx, candidate.Label)
		if err != nil {
			report.Remaining = candidates[i:]
			return report, fmt.Errorf("look up task id for %q: %w", candidate.Label, err)
		}

		taskID, err := ask(ctx, prompter, Prompt{
			Entry:         candidate,
			Suggestion:    suggestion,
			HasSuggestion: ok,
			Position:      i + 1,
			Total:         len(candidates),
		})
		if err != nil {
			report.Remaining = candidates[i:]
			if errors.Is(err, ErrAbandoned) || ctx.Err() != nil {
				report.Abandoned = true
				e.logger.Info("reconciliation abandoned", "date", date, "reconciled", len(report.Reconciled), "remaining", len(report.Remaining))
				return report, nil
			}
			return report, err
		}

		if err := e.store.SetTaskID(ctx, candidate.ID, taskID); err != nil {
			report.Remaining = candidates[i:]
			return report, fmt.Errorf("set task id for entry %d: %w", candidate.ID, err)
		}

		tid := taskID
		candidate.TaskID = &tid
		report.Reconciled = append(report.Reconciled, Assignment{
			Entry:  candidate,
			TaskID: taskID,
			Reused: ok && taskID == suggestion,
		})
		e.logger.Debug("entry reconciled", "id", candidate.ID, "task_id", taskID)
	}

	return report, nil
}

func ask(ctx context.Context, prompter Prompter, p Prompt) (string, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p.Attempt = attempt
		value, err := prompter.TaskID(ctx, p)
		if err != nil {
			return "", err
		}
		if value = strings.TrimSpace(value); value != "" {
			return value, nil
		}
	}
}
