package parser

import "github.com/ukaji3/remarksync-go/pkg/remarksync/models"

// BuildKey builds the composite key of a row from the named fields, in the
// order given. A field missing from the row contributes an empty part.
func BuildKey(row map[string]interface{}, fields []string) models.RowKey {
	key := make(models.RowKey, len(fields))
	for i, f := range fields {
		key[i] = Normalize(row[f])
	}
	return key
}

// BuildRowKey builds the composite key of a raw row from 0-based column
// indices, in the order given. Columns beyond the row contribute "".
func BuildRowKey(cells []string, cols []int) models.RowKey {
	key := make(models.RowKey, len(cols))
	for i, c := range cols {
		if c >= 0 && c < len(cells) {
			key[i] = Normalize(cells[c])
		}
	}
	return key
}
