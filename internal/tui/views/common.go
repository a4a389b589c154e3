package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/entry"
	"github.com/xolan/chronos/internal/query"
	"github.com/xolan/chronos/internal/timeutil"
	"github.com/xolan/chronos/internal/tui/ui"
)

// TableOptions configures RenderEntryTable.
type TableOptions struct {
	Now    time.Time
	Loc    *time.Location
	Width  int // available width; labels are truncated to fit
	Cursor int // highlighted row, -1 for none
}

// RenderEntryTable renders entries as aligned rows. The open entry's
// duration counts up to opts.Now.
func RenderEntryTable(entries []entry.TimeEntry, styles ui.Styles, opts TableOptions) string {
	if len(entries) == 0 {
		return ""
	}

	indexWidth := len(fmt.Sprintf("[%d]", len(entries)))
	labelWidth := 0
	for _, e := range entries {
		labelWidth = max(labelWidth, len(e.Label))
	}
	// index, "HH:MM - HH:MM", duration and task columns plus separators
	if limit := opts.Width - indexWidth - 13 - 5 - 12 - 6; opts.Width > 0 && labelWidth > limit {
		labelWidth = max(limit, 10)
	}

	var b strings.Builder
	for i, e := range entries {
		label := e.Label
		if len(label) > labelWidth {
			label = label[:labelWidth-1] + "…"
		}

		d, err := query.Duration(e, opts.Now, opts.Loc)
		elapsed := timeutil.FormatHHMM(d)
		if err != nil {
			elapsed = "??:??"
		}

		line := fmt.Sprintf("%s %s  %-*s  %s  %s",
			styles.EntryIndex.Render(fmt.Sprintf("%-*s", indexWidth, fmt.Sprintf("[%d]", i+1))),
			styles.EntryTime.Render(e.TimeStart+" - "+cli.FormatEnd(e)),
			labelWidth, label,
			styles.EntryDuration.Render(elapsed),
			styles.EntryTask.Render(cli.FormatTaskID(e)))

		style := styles.EntryNormal
		switch {
		case i == opts.Cursor:
			style = styles.EntrySelected
		case e.IsOpen():
			style = styles.EntryOpen
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// Elapsed sums the durations of entries at now.
func Elapsed(entries []entry.TimeEntry, now time.Time, loc *time.Location) time.Duration {
	var total time.Duration
	for _, e := range entries {
		if d, err := query.Duration(e, now, loc); err == nil {
			total += d
		}
	}
	return total
}
