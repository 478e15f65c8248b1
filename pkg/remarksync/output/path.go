// Package output names, validates and writes reconciliation outputs.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidPath indicates an output directory that cannot be used.
var ErrInvalidPath = errors.New("invalid output path")

// MaxPathLength is the longest accepted output path.
const MaxPathLength = 220

const (
	// DefaultPrefix names interactive outputs, e.g. Suivi_commande_010224.xlsx.
	DefaultPrefix = "Suivi_commande"
	// TransientPrefix names outputs written to a temporary directory.
	TransientPrefix = "Suivi_commandes"
)

// FileName returns prefix_DDMMYY.xlsx, or prefix_DDMMYY_HHMMSS.xlsx when
// withTime is set.
func FileName(prefix string, now time.Time, withTime bool) string {
	layout := "020106"
	if withTime {
		layout = "020106_150405"
	}
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format(layout))
}

// SavePath validates dir and returns the absolute path of the dated output
// file inside it. The directory is created when missing.
func SavePath(dir string, now time.Time) (string, error) {
	return savePath(dir, FileName(DefaultPrefix, now, false))
}

// TransientPath returns a time-stamped output path inside a fresh temporary
// directory.
func TransientPath(now time.Time) (string, error) {
	dir, err := os.MkdirTemp("", "remarksync-")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	return savePath(dir, FileName(TransientPrefix, now, true))
}

// NamedPath validates dir like SavePath and returns the absolute path of
// name inside it.
func NamedPath(dir, name string) (string, error) {
	return savePath(dir, name)
}

func savePath(dir, name string) (string, error) {
	raw := dir
	dir = strings.ReplaceAll(strings.TrimSpace(dir), "\u00a0", "")
	if dir == "" {
		return "", fmt.Errorf("%w: empty directory", ErrInvalidPath)
	}
	dir = filepath.Clean(dir)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v (directory: %s)", ErrInvalidPath, err, raw)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: directory missing or not accessible (directory: %s)", ErrInvalidPath, raw)
	}

	full, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("%w: %v (directory: %s)", ErrInvalidPath, err, raw)
	}
	if len(full) > MaxPathLength {
		return "", fmt.Errorf("%w: path longer than %d characters (directory: %s)", ErrInvalidPath, MaxPathLength, raw)
	}
	return full, nil
}

// RemoveExisting deletes path if it exists.
func RemoveExisting(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
