package models

// Remark is the value carried from an old row to the matching new row.
type Remark struct {
	// Value is the cell value: nil, string, int64, float64 or bool.
	Value interface{} `json:"value"`
	// Annotation is the cell note, nil when the cell has none or the
	// sheet does not support notes.
	Annotation *Annotation `json:"annotation,omitempty"`
	// Row is the 1-based source row the remark was read from.
	Row int `json:"row"`
}
