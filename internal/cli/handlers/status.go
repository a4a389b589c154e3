package handlers

import (
	"context"
	"fmt"

	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/query"
	"github.com/xolan/chronos/internal/timeutil"
)

// ShowStatus prints the running entry and today's total.
func ShowStatus(ctx context.Context, deps *cli.Deps) {
	q := deps.Services.Query

	total, err := q.ElapsedToday(ctx)
	if err != nil {
		storageError(deps, "load today's entries", err)
		return
	}

	open := deps.Services.Session.State().Open
	if open == nil {
		_, _ = fmt.Fprintln(deps.Stdout, "No entry is running")
		_, _ = fmt.Fprintln(deps.Stdout, "Start one with: chronos start <label>")
	} else {
		_, _ = fmt.Fprintf(deps.Stdout, "Running: %s\n", open.Label)
		_, _ = fmt.Fprintf(deps.Stdout, "  Started: %s %s\n", open.Date, open.TimeStart)
		if d, err := query.Duration(*open, q.Now(), q.Location()); err == nil {
			_, _ = fmt.Fprintf(deps.Stdout, "  Elapsed: %s\n", timeutil.FormatHHMM(d))
		}
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Today: %s\n", timeutil.FormatHHMM(total))
}
