package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/xolan/chronos/internal/entry"
)

func strPtr(s string) *string { return &s }

var now = time.Date(2024, time.January, 15, 18, 0, 0, 0, time.UTC)

func sampleEntries() []entry.TimeEntry {
	return []entry.TimeEntry{
		{ID: 1, Date: "2024-01-15", TimeStart: "09:00", TimeEnd: strPtr("09:30"), Label: "email", TaskID: strPtr("MAIL-1")},
		{ID: 2, Date: "2024-01-15", TimeStart: "09:30", TimeEnd: strPtr("10:45"), Label: "coding, review"},
		{ID: 3, Date: "2024-01-15", TimeStart: "11:00", Label: "still going"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", JSON, false},
		{"CSV", CSV, false},
		{"yaml", YAML, false},
		{"yml", YAML, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDocument_SkipsOpenEntries(t *testing.T) {
	doc, err := NewDocument("2024-01-15", sampleEntries(), now, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Metadata.TotalEntries)
	assert.Equal(t, 1, doc.Metadata.Skipped)
	assert.Equal(t, 105, doc.Metadata.TotalMinutes)
	assert.Equal(t, []int64{1, 2}, doc.IDs())
	assert.Equal(t, 30, doc.Entries[0].DurationMinutes)
}

func TestNewDocument_Empty(t *testing.T) {
	doc, err := NewDocument("2024-01-15", nil, now, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, doc.IDs())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, doc))
	assert.Contains(t, buf.String(), `"entries": []`)
}

func TestWrite_JSON(t *testing.T) {
	doc, err := NewDocument("2024-01-15", sampleEntries(), now, time.UTC)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, doc))

	var decoded struct {
		Metadata Metadata `json:"metadata"`
		Entries  []struct {
			ID              int64   `json:"id"`
			Label           string  `json:"label"`
			TaskID          *string `json:"task_id"`
			DurationMinutes int     `json:"duration_minutes"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "2024-01-15", decoded.Metadata.Date)
	require.Len(t, decoded.Entries, 2)
	assert.Equal(t, "email", decoded.Entries[0].Label)
	require.NotNil(t, decoded.Entries[0].TaskID)
	assert.Equal(t, "MAIL-1", *decoded.Entries[0].TaskID)
	assert.Nil(t, decoded.Entries[1].TaskID)
	assert.Equal(t, 75, decoded.Entries[1].DurationMinutes)
}

func TestWrite_CSV(t *testing.T) {
	doc, err := NewDocument("2024-01-15", sampleEntries(), now, time.UTC)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, CSV, doc))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"1", "2024-01-15", "09:00", "09:30", "30", "email", "MAIL-1", "false"}, records[1])
	assert.Equal(t, "coding, review", records[2][5], "labels with commas survive quoting")
	assert.Equal(t, "", records[2][6])
}

func TestWrite_YAML(t *testing.T) {
	doc, err := NewDocument("2024-01-15", sampleEntries(), now, time.UTC)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, YAML, doc))

	var decoded struct {
		Metadata struct {
			Date         string `yaml:"date"`
			TotalEntries int    `yaml:"total_entries"`
		} `yaml:"metadata"`
		Entries []struct {
			ID              int64  `yaml:"id"`
			TimeEnd         string `yaml:"time_end"`
			Label           string `yaml:"label"`
			DurationMinutes int    `yaml:"duration_minutes"`
		} `yaml:"entries"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "2024-01-15", decoded.Metadata.Date)
	assert.Equal(t, 2, decoded.Metadata.TotalEntries)
	require.Len(t, decoded.Entries, 2)
	assert.Equal(t, "09:30", decoded.Entries[0].TimeEnd)
	assert.Equal(t, 75, decoded.Entries[1].DurationMinutes)
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, Format("xml"), Document{}))
}
