package parser

import (
	"testing"

	"github.com/ukaji3/remarksync-go/pkg/remarksync/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    interface{}
		expected string
	}{
		{"  R1\u00a0", "R1"},
		{" A1 ", "A1"},
		{"a1", "A1"},
		{"bl 2024\u202f001", "BL2024001"},
		{"\tP-1\n", "P-1"},
		{nil, ""},
		{int64(1200), "1200"},
		{12.5, "12.5"},
		{"", ""},
	}

	for _, tt := range tests {
		result := Normalize(tt.input)
		if result != tt.expected {
			t.Errorf("Normalize(%v) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []interface{}{" réf-01 ", "RÉF-01", "  x\u00a0y ", nil, 3.0}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %v: %q then %q", in, once, twice)
		}
	}
	if Normalize(" A1 ") != Normalize("A1") || Normalize("A1") != Normalize("a1") {
		t.Errorf("Normalize should ignore case and spaces for ASCII input")
	}
}

func TestBuildKey(t *testing.T) {
	row := map[string]interface{}{
		"Référence":   "A1",
		"Désignation": "Widget",
		"Remarques":   "ignored",
	}
	key := BuildKey(row, []string{"Référence", "Désignation"})
	if !key.Equal(models.RowKey{"A1", "WIDGET"}) {
		t.Errorf("BuildKey = %v, expected [A1 WIDGET]", key)
	}

	reversed := BuildKey(row, []string{"Désignation", "Référence"})
	if reversed.Equal(key) {
		t.Errorf("field order should matter: %v == %v", reversed, key)
	}

	missing := BuildKey(row, []string{"Référence", "Absent"})
	if !missing.Equal(models.RowKey{"A1", ""}) {
		t.Errorf("missing field should contribute an empty part, got %v", missing)
	}
}

func TestBuildRowKey(t *testing.T) {
	cells := []string{"", " p1 ", "x", "", "a1\u00a0"}
	key := BuildRowKey(cells, []int{1, 4})
	if !key.Equal(models.RowKey{"P1", "A1"}) {
		t.Errorf("BuildRowKey = %v, expected [P1 A1]", key)
	}
	short := BuildRowKey(cells[:2], []int{1, 4})
	if !short.Equal(models.RowKey{"P1", ""}) {
		t.Errorf("BuildRowKey on short row = %v", short)
	}
}
