package host

import (
	"errors"
	"os"
	"path/filepath"
)

// ClearCache deletes every entry of dir. Entries that cannot be removed are
// skipped; their errors are returned for inspection only.
func ClearCache(dir string) (removed int, errs []error) {
	if dir == "" {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, []error{err}
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errs
}
