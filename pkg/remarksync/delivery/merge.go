// Package delivery merges the remark columns of two delivery-note extracts.
package delivery

import (
	"fmt"
	"strings"

	"github.com/ukaji3/remarksync-go/pkg/remarksync/models"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/parser"
)

const (
	// DefaultSheet is the worksheet holding the delivery notes.
	DefaultSheet = "Feuil2"
	// DefaultHeaderMarker identifies the header row of the extract.
	DefaultHeaderMarker = "N° Compte Client"
	// DefaultKeyField is the delivery-note number.
	DefaultKeyField = "N° Pièce"

	NewRemarks = "REMARQUES_nouvelles"
	OldRemarks = "REMARQUES_anciennes"
)

// DefaultDropColumns are removed from the deduplicated merge.
var DefaultDropColumns = []string{"Prix Revient Total"}

// Options configures Merge.
type Options struct {
	// KeyField is the column both extracts are joined on.
	KeyField string
	// DropColumns are removed from the deduplicated view when present.
	DropColumns []string
}

func (o Options) withDefaults() Options {
	if o.KeyField == "" {
		o.KeyField = DefaultKeyField
	}
	if o.DropColumns == nil {
		o.DropColumns = DefaultDropColumns
	}
	return o
}

// Result holds both views of a merge.
type Result struct {
	// Deduplicated has one row per current row, with the first non-empty
	// previous remark of the same piece.
	Deduplicated *models.Table
	// Raw has one row per (current row, matching previous row) pair.
	Raw *models.Table
}

// Merge joins current with previous on the piece number. The last column of
// each extract is its remark column.
func Merge(current, previous *models.Table, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	cur, err := prepare(current, NewRemarks, opts.KeyField)
	if err != nil {
		return nil, err
	}
	prev, err := prepare(previous, OldRemarks, opts.KeyField)
	if err != nil {
		return nil, err
	}

	prevKey := prev.ColumnIndex(opts.KeyField)
	prevRemark := len(prev.Columns) - 1
	first := make(map[string]string)
	all := make(map[string][]string)
	for _, row := range prev.Rows {
		piece := row[prevKey]
		if piece == "" {
			continue
		}
		remark := row[prevRemark]
		all[piece] = append(all[piece], remark)
		if _, ok := first[piece]; !ok && strings.TrimSpace(remark) != "" {
			first[piece] = remark
		}
	}

	return &Result{
		Deduplicated: deduplicated(cur, opts, first),
		Raw:          raw(cur, opts, all),
	}, nil
}

// prepare copies t with trimmed headers, the last column renamed to remark
// and the piece numbers cleaned.
func prepare(t *models.Table, remark, key string) (*models.Table, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("%s: no columns", t.Name)
	}
	out := &models.Table{Name: t.Name, Columns: parser.TrimHeader(t.Columns)}
	out.Columns[len(out.Columns)-1] = remark

	keyCol := out.ColumnIndex(key)
	if keyCol < 0 {
		return nil, &parser.MissingColumnError{Column: key, Source: t.Name}
	}
	for _, r := range t.Rows {
		row := make([]string, len(out.Columns))
		copy(row, r)
		row[keyCol] = PieceNumber(row[keyCol])
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// PieceNumber cleans a delivery-note number: spaces are removed, letters
// upper-cased and a float rendering such as "1234.0" reduced to "1234".
func PieceNumber(s string) string {
	s = parser.Normalize(s)
	if i := strings.IndexByte(s, '.'); i > 0 && strings.Trim(s[i+1:], "0") == "" {
		s = s[:i]
	}
	return s
}

func deduplicated(cur *models.Table, opts Options, first map[string]string) *models.Table {
	drop := make(map[string]bool, len(opts.DropColumns))
	for _, c := range opts.DropColumns {
		drop[c] = true
	}
	keyCol := cur.ColumnIndex(opts.KeyField)
	remarkCol := len(cur.Columns) - 1

	var keep []int
	out := &models.Table{Name: cur.Name}
	for i, c := range cur.Columns[:remarkCol] {
		if drop[c] {
			continue
		}
		keep = append(keep, i)
		out.Columns = append(out.Columns, c)
	}
	out.Columns = append(out.Columns, OldRemarks, NewRemarks)

	for _, r := range cur.Rows {
		row := make([]string, 0, len(out.Columns))
		for _, i := range keep {
			row = append(row, r[i])
		}
		row = append(row, first[r[keyCol]], r[remarkCol])
		out.Rows = append(out.Rows, row)
	}
	return out
}

func raw(cur *models.Table, opts Options, all map[string][]string) *models.Table {
	keyCol := cur.ColumnIndex(opts.KeyField)
	out := &models.Table{
		Name:    cur.Name,
		Columns: append(append([]string(nil), cur.Columns...), OldRemarks),
	}
	for _, r := range cur.Rows {
		matches := all[r[keyCol]]
		if len(matches) == 0 {
			matches = []string{""}
		}
		for _, m := range matches {
			row := append(append(make([]string, 0, len(out.Columns)), r...), m)
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
