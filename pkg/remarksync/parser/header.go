package parser

import (
	"fmt"
	"strings"
)

// DefaultMaxScanRows is the number of leading rows searched for a header marker.
const DefaultMaxScanRows = 10

// LocateHeaderRow returns the 0-based index of the first row, within the first
// maxScanRows rows, having a cell that contains marker (case-sensitive).
// A non-positive maxScanRows uses DefaultMaxScanRows.
func LocateHeaderRow(rows [][]string, marker string, maxScanRows int) (int, error) {
	if maxScanRows <= 0 {
		maxScanRows = DefaultMaxScanRows
	}
	if marker == "" {
		return 0, fmt.Errorf("header marker is empty")
	}
	for i := 0; i < len(rows) && i < maxScanRows; i++ {
		for _, cell := range rows[i] {
			if strings.Contains(cell, marker) {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("header marker %q %w in the first %d rows", marker, ErrNotFound, maxScanRows)
}

// HeaderIndex maps trimmed header labels to their 0-based column index.
// The first occurrence of a duplicated label wins.
func HeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	return idx
}

// TrimHeader returns a copy of header with surrounding whitespace removed
// from every label.
func TrimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// ResolveColumns returns the 0-based column of each name, failing on the
// first missing one.
func ResolveColumns(index map[string]int, names []string) ([]int, error) {
	cols := make([]int, len(names))
	for i, n := range names {
		c, ok := index[n]
		if !ok {
			return nil, &MissingColumnError{Column: n}
		}
		cols[i] = c
	}
	return cols, nil
}

// MissingColumnError reports a column expected by name that is absent from
// the header row.
type MissingColumnError struct {
	Column string
	// Source names the document or role the column was expected in (optional).
	Source string
}

func (e *MissingColumnError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("column %q not found in %s", e.Column, e.Source)
	}
	return fmt.Sprintf("column %q not found", e.Column)
}

// Unwrap lets errors.Is(err, ErrNotFound) match.
func (e *MissingColumnError) Unwrap() error {
	return ErrNotFound
}
