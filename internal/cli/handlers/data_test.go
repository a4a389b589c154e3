package handlers

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/xolan/chronos/internal/export"
	"github.com/xolan/chronos/internal/storage"
)

func TestReset_Confirmed(t *testing.T) {
	deps, stdout, _, exitCode := setupTestDeps(t)
	ctx := context.Background()

	StartEntry(ctx, deps, "email")
	RecordDrink(ctx, deps, "coffee")
	stdout.Reset()

	Reset(ctx, deps, true)

	if *exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", *exitCode)
	}
	if !strings.Contains(stdout.String(), "All entries and drink counters deleted") {
		t.Errorf("expected reset confirmation, got %q", stdout.String())
	}

	backup := storage.GetBackupPathForStorage(deps.Services.Store.Path(), 1)
	if !strings.Contains(stdout.String(), "Backup: "+backup) {
		t.Errorf("expected backup path in output, got %q", stdout.String())
	}
	if _, err := os.Stat(backup); err != nil {
		t.Errorf("expected backup file to exist: %v", err)
	}

	entries, err := deps.Services.Store.QueryByDate(ctx, testToday)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries after reset, got %d", len(entries))
	}
	drinks, err := deps.Services.Store.DrinksByDate(ctx, testToday)
	if err != nil {
		t.Fatal(err)
	}
	if len(drinks) != 0 {
		t.Errorf("expected no drinks after reset, got %d", len(drinks))
	}

	// The session forgot the deleted entry: stopping is a no-op.
	stdout.Reset()
	StopEntry(ctx, deps)
	if !strings.Contains(stdout.String(), "No entry is running") {
		t.Errorf("expected idle session after reset, got %q", stdout.String())
	}
}

func TestReset_Prompt(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantReset bool
	}{
		{"yes", "yes\n", true},
		{"y upper", "Y\n", true},
		{"no", "n\n", false},
		{"empty", "\n", false},
		{"end of input", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, stdout, _, exitCode := setupTestDepsWithInput(t, tt.input)
			ctx := context.Background()

			RetroEntry(ctx, deps, 30, "email")
			stdout.Reset()

			Reset(ctx, deps, false)

			if *exitCode != 0 {
				t.Errorf("expected exit code 0, got %d", *exitCode)
			}
			if !strings.Contains(stdout.String(), "[y/N]") {
				t.Errorf("expected confirmation prompt, got %q", stdout.String())
			}

			entries, err := deps.Services.Store.QueryByDate(ctx, testToday)
			if err != nil {
				t.Fatal(err)
			}
			if tt.wantReset && len(entries) != 0 {
				t.Errorf("expected entries to be deleted, got %d", len(entries))
			}
			if !tt.wantReset {
				if len(entries) != 1 {
					t.Errorf("expected entries to be kept, got %d", len(entries))
				}
				if !strings.Contains(stdout.String(), "Reset cancelled") {
					t.Errorf("expected cancel message, got %q", stdout.String())
				}
			}
		})
	}
}

func TestExport_JSON(t *testing.T) {
	deps, stdout, stderr, exitCode := setupTestDeps(t)
	ctx := context.Background()

	RetroEntry(ctx, deps, 60, "email")
	StartEntry(ctx, deps, "coding")
	stdout.Reset()

	Export(ctx, deps, "", "json", false)

	if *exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", *exitCode)
	}

	var doc export.Document
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}
	if doc.Metadata.Date != testToday {
		t.Errorf("expected date %s, got %s", testToday, doc.Metadata.Date)
	}
	if len(doc.Entries) != 1 || doc.Entries[0].Label != "email" {
		t.Fatalf("expected only the closed email entry, got %+v", doc.Entries)
	}
	if doc.Entries[0].DurationMinutes != 60 {
		t.Errorf("expected 60 minutes, got %d", doc.Entries[0].DurationMinutes)
	}
	if !strings.Contains(stderr.String(), "Skipped 1 running entry") {
		t.Errorf("expected skip warning, got %q", stderr.String())
	}
}

func TestExport_CSVMark(t *testing.T) {
	deps, stdout, stderr, exitCode := setupTestDeps(t)
	ctx := context.Background()

	RetroEntry(ctx, deps, 60, "email")
	RetroEntry(ctx, deps, 30, "coding")
	StopEntry(ctx, deps)
	stdout.Reset()

	Export(ctx, deps, "2024-01-15", "CSV", true)

	if *exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", *exitCode)
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", stdout.String())
	}
	if lines[0] != strings.Join(export.CSVHeader, ",") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(stderr.String(), "Marked 2 entries as exported") {
		t.Errorf("expected mark summary, got %q", stderr.String())
	}

	entries, err := deps.Services.Store.QueryByDate(ctx, testToday)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if !e.Exported {
			t.Errorf("expected entry %d to be marked exported", e.ID)
		}
	}
}

func TestExport_InvalidFormat(t *testing.T) {
	deps, stdout, stderr, exitCode := setupTestDeps(t)

	Export(context.Background(), deps, "", "xml", false)

	if *exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", *exitCode)
	}
	if !strings.Contains(stderr.String(), "unknown export format") {
		t.Errorf("expected format error, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("expected no output, got %q", stdout.String())
	}
}

func TestExport_InvalidDate(t *testing.T) {
	deps, _, _, exitCode := setupTestDeps(t)

	Export(context.Background(), deps, "yesterday", "json", false)

	if *exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", *exitCode)
	}
}
