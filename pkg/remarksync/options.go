// Package remarksync carries remarks forward from an old spreadsheet to a new
// one, matching rows on a composite business key.
package remarksync

import (
	"log/slog"

	"github.com/ukaji3/remarksync-go/internal/logutil"
)

const (
	// DefaultValueField is the remark column header.
	DefaultValueField = "Remarques"
	// DefaultValueColumn is where the remark column is inserted on a target
	// that lacks it (1-based, column N).
	DefaultValueColumn = 14
)

// DefaultKeyFields is the order-tracking key: document number and article
// reference.
var DefaultKeyFields = []string{"N° Pièce", "Réf. Article"}

// Options configures a reconciliation run.
type Options struct {
	// KeyFields are the header labels forming the composite key, in order.
	KeyFields []string
	// ValueField is the header label of the carried column.
	ValueField string
	// ValueColumn is the 1-based position used when the column is added to
	// the new workbook.
	ValueColumn int
	// HeaderMarker locates the header row by content. Empty means the header
	// is row 1.
	HeaderMarker string
	// MaxScanRows bounds the header search.
	MaxScanRows int
	// OldSheet and NewSheet select worksheets by name. Empty means the first.
	OldSheet string
	NewSheet string
	// Annotations controls whether cell notes are carried along with values.
	// If nil, defaults to true.
	Annotations *bool
	// OutputPath is where the reconciled workbook is saved.
	OutputPath string
	// Logger receives progress logs. Nil discards them.
	Logger *slog.Logger
	// RunID is attached to logs and the result.
	RunID string
}

// DefaultOptions returns the order-tracking settings.
func DefaultOptions() Options {
	return Options{
		KeyFields:   append([]string(nil), DefaultKeyFields...),
		ValueField:  DefaultValueField,
		ValueColumn: DefaultValueColumn,
	}
}

// ShouldCopyAnnotations returns whether cell notes are carried.
func (o Options) ShouldCopyAnnotations() bool {
	if o.Annotations != nil {
		return *o.Annotations
	}
	return true
}

func (o Options) withDefaults() Options {
	if len(o.KeyFields) == 0 {
		o.KeyFields = append([]string(nil), DefaultKeyFields...)
	}
	if o.ValueField == "" {
		o.ValueField = DefaultValueField
	}
	if o.ValueColumn <= 0 {
		o.ValueColumn = DefaultValueColumn
	}
	if o.Logger == nil {
		o.Logger = logutil.Discard()
	}
	return o
}
