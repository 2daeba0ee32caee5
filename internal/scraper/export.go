package scraper

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/bytedance/sonic"
)

// csvSnippetLimit caps the snippet column in CSV exports.
const csvSnippetLimit = 300

var csvHeader = []string{
	"url", "title", "main_text_snippet",
	"num_links", "num_headings", "num_json_ld",
}

// ExportSnapshotsJSON writes snapshots to path as a JSON array of flat
// objects.
func ExportSnapshotsJSON(path string, snapshots []Snapshot) error {
	data, err := sonic.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshots: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadSnapshotsJSON reads a JSON snapshot export back.
func LoadSnapshotsJSON(path string) ([]Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var snapshots []Snapshot
	if err := sonic.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return snapshots, nil
}

// ExportSnapshotsCSV writes a flat summary view: one row per snapshot with
// the snippet truncated and heading/link/JSON-LD counts.
func ExportSnapshotsCSV(path string, snapshots []Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, snap := range snapshots {
		numHeadings := 0
		for _, hs := range snap.Headings {
			numHeadings += len(hs)
		}

		snippet := snap.MainTextSnippet
		if runes := []rune(snippet); len(runes) > csvSnippetLimit {
			snippet = string(runes[:csvSnippetLimit])
		}

		row := []string{
			snap.URL,
			snap.Title,
			snippet,
			strconv.Itoa(len(snap.Links)),
			strconv.Itoa(numHeadings),
			strconv.Itoa(len(snap.JSONLD)),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// LoadSnapshotsCSV reads a CSV summary export back as row maps keyed by
// column name.
func LoadSnapshotsCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
