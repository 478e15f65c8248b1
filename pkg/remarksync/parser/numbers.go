package parser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CleanNumber parses a quantity or amount exported with French formatting:
// whitespace (including non-breaking spaces) is removed, a decimal comma
// becomes a point and the empty string is zero.
func CleanNumber(s string) (decimal.Decimal, error) {
	s = strings.Map(dropSpace, s)
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return d, nil
}
