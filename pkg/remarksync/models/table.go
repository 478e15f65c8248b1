package models

// Table is a plain header + rows structure loaded from csv, xlsx or xls.
type Table struct {
	// Name is the source file name (no path).
	Name string `json:"name"`
	// Columns are the trimmed header labels.
	Columns []string `json:"columns"`
	// Rows are the data rows, each padded or truncated to len(Columns).
	Rows [][]string `json:"rows"`
}

// ColumnIndex returns the 0-based index of the first column named name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at row/column name, or "" when either is missing.
func (t *Table) Value(row int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if idx >= len(r) {
		return ""
	}
	return r[idx]
}

// Record returns row as a map keyed by column name.
func (t *Table) Record(row int) map[string]interface{} {
	rec := make(map[string]interface{}, len(t.Columns))
	if row < 0 || row >= len(t.Rows) {
		return rec
	}
	for i, c := range t.Columns {
		if _, seen := rec[c]; seen {
			continue
		}
		if i < len(t.Rows[row]) {
			rec[c] = t.Rows[row][i]
		} else {
			rec[c] = ""
		}
	}
	return rec
}
