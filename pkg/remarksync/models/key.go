// Package models defines data structures shared by the reconciliation packages.
package models

import "strings"

// RowKey is an ordered tuple of normalized field values identifying one
// business entity (e.g. document number + article reference).
type RowKey []string

// String joins the key parts with a unit separator so the result can be used
// as a map key without collisions between ("A", "BC") and ("AB", "C").
func (k RowKey) String() string {
	return strings.Join(k, "\x1f")
}

// Empty reports whether every part of the key is empty.
func (k RowKey) Empty() bool {
	for _, p := range k {
		if p != "" {
			return false
		}
	}
	return true
}

// Equal reports whether both keys have the same parts in the same order.
func (k RowKey) Equal(other RowKey) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}
