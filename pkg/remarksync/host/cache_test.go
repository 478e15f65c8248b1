package host

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClearCache(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "00020813-0000-0000-C000-000000000046x0x1x9"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dicts.dat"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, errs := ClearCache(dir)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	if removed != 2 {
		t.Errorf("removed = %d, expected 2", removed)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty cache dir, found %d entries", len(entries))
	}
}

func TestClearCacheMissingDir(t *testing.T) {
	removed, errs := ClearCache(filepath.Join(t.TempDir(), "gen_py"))
	if removed != 0 || len(errs) != 0 {
		t.Errorf("ClearCache on a missing dir = (%d, %v), expected (0, nil)", removed, errs)
	}
}
