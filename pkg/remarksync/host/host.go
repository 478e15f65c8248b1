// Package host drives the spreadsheet application that opens, edits and
// saves workbooks, and owns its lifecycle for the duration of one operation.
package host

import (
	"errors"
	"fmt"

	"github.com/ukaji3/remarksync-go/pkg/remarksync/annotate"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/models"
)

var (
	// ErrHostFailure indicates the application failed to launch, respond or
	// shut down.
	ErrHostFailure = errors.New("spreadsheet host failure")
	// ErrReadOnly is returned when saving a workbook opened read-only.
	ErrReadOnly = errors.New("workbook is read-only")
	// ErrClosed is returned by an application or workbook used after Quit or Close.
	ErrClosed = errors.New("host closed")
)

// StepError reports the failing step of a host lifecycle operation. It
// matches both ErrHostFailure and the underlying error.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("host %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{ErrHostFailure, e.Err}
}

// LaunchOptions are applied to a freshly launched application.
type LaunchOptions struct {
	Visible        bool
	DisplayAlerts  bool
	ScreenUpdating bool
	EnableEvents   bool
}

// QuietLaunch is a hidden application with alerts, screen updates and
// events suppressed.
var QuietLaunch = LaunchOptions{}

// Application is a running spreadsheet host.
type Application interface {
	// Open opens the workbook at path.
	Open(path string, readOnly bool) (Workbook, error)
	// SetDisplayAlerts toggles interactive alerts.
	SetDisplayAlerts(on bool) error
	// Quit asks the application to shut down, closing open workbooks
	// without saving.
	Quit() error
	// Release drops the reference held on the application.
	Release() error
}

// Workbook is an open document.
type Workbook interface {
	Name() string
	// Sheet returns the named worksheet, or the first one for "".
	Sheet(name string) (Sheet, error)
	SaveAs(path string) error
	// Close closes the workbook, saving it in place when save is set.
	Close(save bool) error
}

// Sheet is a cell-addressable worksheet. Rows and columns are 1-based.
type Sheet interface {
	Name() string
	// Rows returns the displayed text of every used row.
	Rows() ([][]string, error)
	// Value returns the typed cell value: nil, string, int64, float64 or bool.
	Value(row, col int) (interface{}, error)
	SetValue(row, col int, value interface{}) error
	// InsertColumn shifts col and the columns after it one place right.
	InsertColumn(col int) error
}

// AnnotatedSheet is a sheet whose cells can carry notes.
type AnnotatedSheet interface {
	Sheet
	// Annotation returns the note on the cell, nil when there is none.
	Annotation(row, col int) (*models.Annotation, error)
	// ClearAnnotation deletes the note on the cell, if any.
	ClearAnnotation(row, col int) error
	// Cell returns the cell as a note destination.
	Cell(row, col int) annotate.Target
}
