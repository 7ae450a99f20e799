// Package input collects LinkedIn profile URLs from the supported upload
// formats: a single form value, a CSV file with URLs in the first column,
// or an Excel roster with a "Linkedin Profile" column.
package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoURLs is returned when an upload contains no usable profile URLs.
var ErrNoURLs = errors.New("no profile URLs found in input")

// NormalizeProfileURL validates that a URL points at an actual profile.
// Search URLs carry no "/in/" segment and cannot be resolved to a profile.
func NormalizeProfileURL(rawURL string) (string, bool) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", false
	}
	if !strings.Contains(trimmed, "/in/") {
		return "", false
	}
	return trimmed, true
}

// Dedupe removes duplicate URLs, preserving first-seen order.
func Dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// FromCSV reads profile URLs from the first column of a CSV file. Rows whose
// first field is not an http(s) URL (headers, blanks) are skipped.
func FromCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var urls []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		field := strings.TrimSpace(record[0])
		if !strings.HasPrefix(field, "http") {
			continue
		}
		urls = append(urls, field)
	}
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	return urls, nil
}

// RosterEntry is one row of an uploaded Excel roster.
type RosterEntry struct {
	FullName   string
	ProfileURL string
}

// FromExcel reads an Excel roster. The first sheet must carry a
// "Linkedin Profile" column; a "Full Name" column is used when present.
// Rows with a blank URL are skipped.
func FromExcel(r io.Reader) ([]RosterEntry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoURLs
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoURLs
	}

	urlCol, nameCol := -1, -1
	for i, header := range rows[0] {
		switch strings.TrimSpace(header) {
		case "Linkedin Profile":
			urlCol = i
		case "Full Name":
			nameCol = i
		}
	}
	if urlCol < 0 {
		return nil, fmt.Errorf("excel file has no %q column", "Linkedin Profile")
	}

	var entries []RosterEntry
	for _, row := range rows[1:] {
		if urlCol >= len(row) {
			continue
		}
		url := strings.TrimSpace(row[urlCol])
		if url == "" {
			continue
		}
		entry := RosterEntry{ProfileURL: url}
		if nameCol >= 0 && nameCol < len(row) {
			entry.FullName = strings.TrimSpace(row[nameCol])
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, ErrNoURLs
	}
	return entries, nil
}
