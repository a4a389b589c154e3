package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/export"
	"github.com/xolan/chronos/internal/storage"
)

// Reset deletes every entry and drink counter after a backup. Without
// confirmed the user is asked first.
func Reset(ctx context.Context, deps *cli.Deps, confirmed bool) {
	if !confirmed {
		_, _ = fmt.Fprint(deps.Stdout, "This deletes every entry and drink counter. Continue? [y/N]: ")
		line, _ := deps.In.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			_, _ = fmt.Fprintln(deps.Stdout, "Reset cancelled")
			return
		}
	}

	if err := deps.Services.Reset(ctx, deps.Session); err != nil {
		storageError(deps, "reset database", err)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "All entries and drink counters deleted")
	if path := deps.Services.Store.Path(); path != "" && path != ":memory:" {
		_, _ = fmt.Fprintf(deps.Stdout, "Backup: %s\n", storage.GetBackupPathForStorage(path, 1))
	}
}

// Export writes the closed entries of date to Stdout. With mark, the written
// entries are flagged as exported.
func Export(ctx context.Context, deps *cli.Deps, date, format string, mark bool) {
	f, err := export.ParseFormat(format)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return
	}

	date, ok := resolveDate(deps, date)
	if !ok {
		return
	}

	entries, err := deps.Services.Store.QueryByDate(ctx, date)
	if err != nil {
		storageError(deps, "read entries", err)
		return
	}

	doc, err := export.NewDocument(date, entries, deps.Services.Query.Now(), deps.Services.Location)
	if err != nil {
		storageError(deps, "build export", err)
		return
	}

	if err := export.Write(deps.Stdout, f, doc); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to encode %s output\n", strings.ToUpper(string(f)))
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	if doc.Metadata.Skipped > 0 {
		_, _ = fmt.Fprintf(deps.Stderr, "Warning: Skipped %d running %s\n", doc.Metadata.Skipped, cli.Pluralize("entry", doc.Metadata.Skipped))
	}

	if mark && len(doc.Entries) > 0 {
		if err := deps.Services.Store.MarkExported(ctx, doc.IDs()); err != nil {
			storageError(deps, "mark entries as exported", err)
			return
		}
		_, _ = fmt.Fprintf(deps.Stderr, "Marked %d %s as exported\n", len(doc.Entries), cli.Pluralize("entry", len(doc.Entries)))
	}
}
