package handlers

import (
	"context"
	"fmt"

	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/reconcile"
	"github.com/xolan/chronos/internal/session"
	"github.com/xolan/chronos/internal/stats"
	"github.com/xolan/chronos/internal/timeutil"
)

// ShowDay prints the entries, total and drinks of a date. An empty date
// means today.
func ShowDay(ctx context.Context, deps *cli.Deps, date string) {
	date, ok := resolveDate(deps, date)
	if !ok {
		return
	}

	day, err := deps.Services.Query.Day(ctx, date)
	if err != nil {
		storageError(deps, "read entries", err)
		return
	}
	now := deps.Services.Query.Now()
	_, _ = fmt.Fprint(deps.Stdout, cli.FormatDay(day, now, deps.Services.Location))

	// Per-task totals only help once something has been reconciled
	if stats.Calculate(day.Entries, now, deps.Services.Location).Reconciled > 0 {
		_, _ = fmt.Fprint(deps.Stdout, cli.FormatBreakdown("By task", stats.ByTask(day.Entries, now, deps.Services.Location)))
	}
}

// EndDay stops the running entry and asks for a task id for every closed
// entry of date that has none. The whole pass holds the session, so a
// trigger arriving meanwhile waits until it is over.
func EndDay(ctx context.Context, deps *cli.Deps, date string) {
	date, ok := resolveDate(deps, date)
	if !ok {
		return
	}

	prompter := reconcile.NewLinePrompter(deps.In, deps.Stdout)
	var result reconcile.Report
	finished := make(chan struct{})
	err := deps.Session.Do(ctx, func(ctx context.Context, e *session.Engine) error {
		defer close(finished)
		var err error
		result, err = deps.Services.Reconciler(e).Reconcile(ctx, date, prompter)
		return err
	})
	select {
	case <-finished:
	default:
		// The pass never ran, or is still running on the loop
		storageError(deps, "reconcile entries", err)
		return
	}
	if result.Stopped != nil {
		_, _ = fmt.Fprintln(deps.Stdout, cli.FormatStopped(*result.Stopped, deps.Services.Location))
	}
	if err != nil {
		storageError(deps, "reconcile entries", err)
		return
	}

	done := len(result.Reconciled)
	switch {
	case result.Abandoned:
		_, _ = fmt.Fprintln(deps.Stdout)
		_, _ = fmt.Fprintf(deps.Stdout, "Reconciliation stopped: %d reconciled, %d remaining\n", done, len(result.Remaining))
		_, _ = fmt.Fprintln(deps.Stdout, "Hint: Run 'chronos end-day' again to finish")
	case done == 0:
		_, _ = fmt.Fprintf(deps.Stdout, "Nothing to reconcile for %s\n", date)
	default:
		_, _ = fmt.Fprintf(deps.Stdout, "Reconciled %d %s for %s\n", done, cli.Pluralize("entry", done), date)
	}
}

func resolveDate(deps *cli.Deps, input string) (string, bool) {
	if input == "" {
		return deps.Services.Query.Today(), true
	}
	t, err := timeutil.ParseDate(input, deps.Services.Location)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return "", false
	}
	return timeutil.FormatDate(t), true
}
