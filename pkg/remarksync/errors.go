package remarksync

import (
	"fmt"

	"github.com/ukaji3/remarksync-go/pkg/remarksync/host"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/output"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/parser"
)

var (
	// ErrNotFound indicates a header marker or a named column was not found.
	ErrNotFound = parser.ErrNotFound
	// ErrInvalidPath indicates the output path cannot be used.
	ErrInvalidPath = output.ErrInvalidPath
	// ErrHostFailure indicates the spreadsheet host failed.
	ErrHostFailure = host.ErrHostFailure
)

// MissingColumnError names a column absent from a header row.
type MissingColumnError = parser.MissingColumnError

// ReconcileError wraps any failure of a reconciliation run.
type ReconcileError struct {
	Stage string // "host", "open", "header", "columns", "provision", "scan", "apply", "save"
	Err   error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("reconciliation failed (%s): %v", e.Stage, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

func newReconcileError(stage string, err error) *ReconcileError {
	return &ReconcileError{Stage: stage, Err: err}
}
