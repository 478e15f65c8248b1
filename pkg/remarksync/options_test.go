package remarksync

import "testing"

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	if opts.Logger == nil {
		t.Fatal("Expected a discard logger")
	}
	if opts.ValueField != DefaultValueField || opts.ValueColumn != DefaultValueColumn || len(opts.KeyFields) != 2 {
		t.Errorf("Unexpected defaults %+v", opts)
	}
	if !opts.ShouldCopyAnnotations() {
		t.Error("Expected notes to be carried by default")
	}

	off := false
	opts.Annotations = &off
	if opts.ShouldCopyAnnotations() {
		t.Error("Expected notes off")
	}
}
