package parser

import (
	"testing"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"hello", "hello"},
		{"", nil},
		{"0012", "0012"},
		{"0", int64(0)},
		{"0.5", 0.5},
	}

	for _, tt := range tests {
		result := ParseValue(tt.input)
		if result != tt.expected {
			t.Errorf("ParseValue(%q) = %v (type: %T), expected %v (type: %T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1\u00a0234,5", "1234.5"},
		{" 12 ", "12"},
		{"", "0"},
		{"-3,25", "-3.25"},
	}

	for _, tt := range tests {
		d, err := CleanNumber(tt.input)
		if err != nil {
			t.Fatalf("CleanNumber(%q) failed: %v", tt.input, err)
		}
		if d.String() != tt.expected {
			t.Errorf("CleanNumber(%q) = %s, expected %s", tt.input, d.String(), tt.expected)
		}
	}

	if _, err := CleanNumber("abc"); err == nil {
		t.Errorf("CleanNumber(%q) should fail", "abc")
	}
}
