package parser

import (
	"strconv"
	"strings"
)

// ParseValue attempts to parse a cell string as a number.
// Returns nil for "", int64 for integers, float64 for decimals, or the
// original string. Codes with leading zeros ("0012") stay strings.
func ParseValue(s string) interface{} {
	if s == "" {
		return nil
	}
	if hasSignificantLeadingZero(s) {
		return s
	}
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func hasSignificantLeadingZero(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0' && s[1] != '.'
}
