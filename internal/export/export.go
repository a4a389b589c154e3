// Package export writes the closed entries of a day in machine-readable
// formats for downstream tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xolan/chronos/internal/entry"
)

// Format is an output format.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	YAML Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, CSV, YAML}

// ParseFormat validates a format name. Matching is case-insensitive and
// "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (use json, csv or yaml)", s)
}

// Metadata describes an export.
type Metadata struct {
	ExportTimestamp time.Time `json:"export_timestamp" yaml:"export_timestamp"`
	Date            string    `json:"date" yaml:"date"`
	TotalEntries    int       `json:"total_entries" yaml:"total_entries"`
	TotalMinutes    int       `json:"total_minutes" yaml:"total_minutes"`
	Skipped         int       `json:"skipped_open" yaml:"skipped_open"`
}

// Row is an exported entry with its duration resolved.
type Row struct {
	entry.TimeEntry `yaml:",inline"`
	DurationMinutes int `json:"duration_minutes" yaml:"duration_minutes"`
}

// Document is the unit written by Write.
type Document struct {
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	Entries  []Row    `json:"entries" yaml:"entries"`
}

// NewDocument builds the export of date from entries. Open entries are left
// out since their duration is not final.
func NewDocument(date string, entries []entry.TimeEntry, now time.Time, loc *time.Location) (Document, error) {
	doc := Document{
		Metadata: Metadata{ExportTimestamp: now, Date: date},
		Entries:  make([]Row, 0, len(entries)),
	}
	for _, e := range entries {
		if e.IsOpen() {
			doc.Metadata.Skipped++
			continue
		}
		d, err := e.Duration(now, loc)
		if err != nil {
			return Document{}, fmt.Errorf("entry %d: %w", e.ID, err)
		}
		minutes := int(d / time.Minute)
		doc.Entries = append(doc.Entries, Row{TimeEntry: e, DurationMinutes: minutes})
		doc.Metadata.TotalMinutes += minutes
	}
	doc.Metadata.TotalEntries = len(doc.Entries)
	return doc, nil
}

// IDs returns the ids of the exported entries.
func (d Document) IDs() []int64 {
	ids := make([]int64, len(d.Entries))
	for i, r := range d.Entries {
		ids[i] = r.ID
	}
	return ids
}

// Write encodes doc to w in format.
func Write(w io.Writer, format Format, doc Document) error {
	switch format {
	case JSON:
		return writeJSON(w, doc)
	case CSV:
		return writeCSV(w, doc)
	case YAML:
		return writeYAML(w, doc)
	}
	return fmt.Errorf("unknown export format %q", format)
}

func writeJSON(w io.Writer, doc Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// CSVHeader is the first record of a CSV export.
var CSVHeader = []string{"id", "date", "time_start", "time_end", "duration_minutes", "label", "task_id", "exported"}

func writeCSV(w io.Writer, doc Document) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range doc.Entries {
		record := []string{
			strconv.FormatInt(r.ID, 10),
			r.Date,
			r.TimeStart,
			deref(r.TimeEnd),
			strconv.Itoa(r.DurationMinutes),
			r.Label,
			deref(r.TaskID),
			strconv.FormatBool(r.Exported),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeYAML(w io.Writer, doc Document) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
