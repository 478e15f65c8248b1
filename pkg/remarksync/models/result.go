package models

// Result summarizes one reconciliation run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id,omitempty"`
	// OldPath is the source workbook carrying the remarks.
	OldPath string `json:"old_path"`
	// NewPath is the target workbook receiving the remarks.
	NewPath string `json:"new_path"`
	// OutputPath is the saved result workbook.
	OutputPath string `json:"output_path"`
	// OldRows is the number of data rows scanned in the old workbook.
	OldRows int `json:"old_rows"`
	// NewRows is the number of data rows scanned in the new workbook.
	NewRows int `json:"new_rows"`
	// Matched is the number of new rows whose key was found.
	Matched int `json:"matched"`
	// Unmatched is the number of new rows left untouched.
	Unmatched int `json:"unmatched"`
	// DuplicateKeys counts old rows that overwrote an earlier row with the same key.
	DuplicateKeys int `json:"duplicate_keys"`
	// AnnotationsCopied is the number of notes transferred.
	AnnotationsCopied int `json:"annotations_copied"`
	// SkippedFields lists best-effort annotation fields that could not be copied,
	// formatted as "<cell>: <field>".
	SkippedFields []string `json:"skipped_fields,omitempty"`
	// ColumnInserted reports whether the value column was added to the target.
	ColumnInserted bool `json:"column_inserted"`
}
