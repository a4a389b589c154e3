package entry

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestTimeEntry_IsOpen(t *testing.T) {
	open := TimeEntry{Date: "2024-01-15", TimeStart: "09:00", Label: "email"}
	if !open.IsOpen() {
		t.Error("expected entry without end to be open")
	}

	closed := open
	closed.TimeEnd = strPtr("09:30")
	if closed.IsOpen() {
		t.Error("expected entry with end to be closed")
	}
}

func TestTimeEntry_IsReconciled(t *testing.T) {
	e := TimeEntry{Date: "2024-01-15", TimeStart: "09:00", Label: "email"}
	if e.IsReconciled() {
		t.Error("expected fresh entry to be unreconciled")
	}
	e.TaskID = strPtr("JIRA-1")
	if !e.IsReconciled() {
		t.Error("expected entry with task id to be reconciled")
	}
}

func TestTimeEntry_Duration(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, time.January, 15, 11, 0, 45, 0, loc)

	tests := []struct {
		name     string
		entry    TimeEntry
		expected time.Duration
	}{
		{
			name:     "closed entry",
			entry:    TimeEntry{Date: "2024-01-15", TimeStart: "09:00", TimeEnd: strPtr("09:30")},
			expected: 30 * time.Minute,
		},
		{
			name:     "zero duration",
			entry:    TimeEntry{Date: "2024-01-15", TimeStart: "09:00", TimeEnd: strPtr("09:00")},
			expected: 0,
		},
		{
			name:     "open entry runs until now truncated to minute",
			entry:    TimeEntry{Date: "2024-01-15", TimeStart: "10:30"},
			expected: 30 * time.Minute,
		},
		{
			name:     "open entry starting in the future",
			entry:    TimeEntry{Date: "2024-01-15", TimeStart: "12:00"},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.entry.Duration(now, loc)
			if err != nil {
				t.Fatalf("Duration() returned unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Duration() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestTimeEntry_StartAt_Invalid(t *testing.T) {
	e := TimeEntry{Date: "2024-13-45", TimeStart: "09:00"}
	if _, err := e.StartAt(time.UTC); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestTimeEntry_EndAt(t *testing.T) {
	e := TimeEntry{Date: "2024-01-15", TimeStart: "09:00"}
	_, ok, err := e.EndAt(time.UTC)
	if err != nil || ok {
		t.Fatalf("EndAt() on open entry = (%v, %v), expected (false, nil)", ok, err)
	}

	e.TimeEnd = strPtr("17:45")
	end, ok, err := e.EndAt(time.UTC)
	if err != nil || !ok {
		t.Fatalf("EndAt() returned (%v, %v)", ok, err)
	}
	want := time.Date(2024, time.January, 15, 17, 45, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Errorf("EndAt() = %v, expected %v", end, want)
	}
}
