// Package parser provides the text, key, header and table primitives the
// reconciliation engine is built on.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// ErrNotFound indicates a header row or a named column could not be found.
var ErrNotFound = errors.New("not found")

// Normalize canonicalizes a raw cell value into a comparable key fragment.
// The value is converted to text (nil becomes ""), every whitespace rune
// including non-breaking spaces is removed and the result is upper-cased.
// Normalize(Normalize(v)) == Normalize(v) for every v.
func Normalize(v interface{}) string {
	return strings.ToUpper(strings.Map(dropSpace, toText(v)))
}

func dropSpace(r rune) rune {
	if unicode.IsSpace(r) || r == '\u200b' || r == '\ufeff' {
		return -1
	}
	return r
}

func toText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// ColumnName returns the spreadsheet letter name of a 1-based column, or the
// number itself if it is out of range.
func ColumnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return strconv.Itoa(col)
	}
	return name
}
