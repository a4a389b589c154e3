package stats

import (
	"testing"
	"time"

	"github.com/xolan/chronos/internal/entry"
)

var testNow = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

// Helper function to create a closed entry
func makeEntry(start, end, label, taskID string) entry.TimeEntry {
	e := entry.TimeEntry{
		Date:      "2024-01-15",
		TimeStart: start,
		TimeEnd:   &end,
		Label:     label,
	}
	if taskID != "" {
		e.TaskID = &taskID
	}
	return e
}

// Helper function to create an open entry
func makeOpenEntry(start, label string) entry.TimeEntry {
	return entry.TimeEntry{
		Date:      "2024-01-15",
		TimeStart: start,
		Label:     label,
	}
}

func TestCalculate_Empty(t *testing.T) {
	s := Calculate(nil, testNow, time.UTC)

	if s.Total != 0 {
		t.Errorf("Total = %v, expected 0", s.Total)
	}
	if s.EntryCount != 0 {
		t.Errorf("EntryCount = %d, expected 0", s.EntryCount)
	}
}

func TestCalculate(t *testing.T) {
	entries := []entry.TimeEntry{
		makeEntry("09:00", "09:30", "email", "MAIL-1"),
		makeEntry("09:30", "11:00", "coding", ""),
		makeOpenEntry("11:00", "review"),
	}

	s := Calculate(entries, testNow, time.UTC)

	if s.Total != 3*time.Hour {
		t.Errorf("Total = %v, expected 3h", s.Total)
	}
	if s.EntryCount != 3 {
		t.Errorf("EntryCount = %d, expected 3", s.EntryCount)
	}
	if s.Reconciled != 1 {
		t.Errorf("Reconciled = %d, expected 1", s.Reconciled)
	}
	if s.Unreconciled != 2 {
		t.Errorf("Unreconciled = %d, expected 2", s.Unreconciled)
	}
}

func TestCalculate_SkipsMalformedEntries(t *testing.T) {
	entries := []entry.TimeEntry{
		makeEntry("09:00", "09:30", "email", ""),
		makeEntry("9am", "09:30", "broken", ""),
	}

	s := Calculate(entries, testNow, time.UTC)

	if s.EntryCount != 1 {
		t.Errorf("EntryCount = %d, expected 1", s.EntryCount)
	}
	if s.Total != 30*time.Minute {
		t.Errorf("Total = %v, expected 30m", s.Total)
	}
}

func TestByTask(t *testing.T) {
	entries := []entry.TimeEntry{
		makeEntry("09:00", "09:30", "email", "MAIL-1"),
		makeEntry("09:30", "10:30", "coding", "CODE-7"),
		makeEntry("10:30", "10:45", "email", "MAIL-1"),
		makeEntry("10:45", "11:00", "standup", ""),
	}

	breakdowns := ByTask(entries, testNow, time.UTC)

	expected := []Breakdown{
		{Key: "CODE-7", Duration: time.Hour, EntryCount: 1},
		{Key: "MAIL-1", Duration: 45 * time.Minute, EntryCount: 2},
		{Key: Unreconciled, Duration: 15 * time.Minute, EntryCount: 1},
	}
	if len(breakdowns) != len(expected) {
		t.Fatalf("got %d breakdowns, expected %d: %+v", len(breakdowns), len(expected), breakdowns)
	}
	for i, want := range expected {
		if breakdowns[i] != want {
			t.Errorf("breakdowns[%d] = %+v, expected %+v", i, breakdowns[i], want)
		}
	}
}

func TestByTask_Empty(t *testing.T) {
	breakdowns := ByTask(nil, testNow, time.UTC)

	if breakdowns == nil || len(breakdowns) != 0 {
		t.Errorf("expected an empty slice, got %+v", breakdowns)
	}
}

func TestByLabel(t *testing.T) {
	entries := []entry.TimeEntry{
		makeEntry("09:00", "09:30", "email", "MAIL-1"),
		makeEntry("09:30", "10:00", "coding", ""),
		makeOpenEntry("10:00", "email"),
	}

	breakdowns := ByLabel(entries, testNow, time.UTC)

	if len(breakdowns) != 2 {
		t.Fatalf("got %d breakdowns, expected 2: %+v", len(breakdowns), breakdowns)
	}
	if breakdowns[0].Key != "email" || breakdowns[0].Duration != 150*time.Minute || breakdowns[0].EntryCount != 2 {
		t.Errorf("breakdowns[0] = %+v, expected email 2h30m over 2 entries", breakdowns[0])
	}
	if breakdowns[1].Key != "coding" || breakdowns[1].Duration != 30*time.Minute {
		t.Errorf("breakdowns[1] = %+v, expected coding 30m", breakdowns[1])
	}
}

func TestByLabel_TiesSortByKey(t *testing.T) {
	entries := []entry.TimeEntry{
		makeEntry("09:00", "09:30", "b", ""),
		makeEntry("09:30", "10:00", "a", ""),
	}

	breakdowns := ByLabel(entries, testNow, time.UTC)

	if breakdowns[0].Key != "a" || breakdowns[1].Key != "b" {
		t.Errorf("expected ties ordered by key, got %+v", breakdowns)
	}
}
