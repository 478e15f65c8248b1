// Package annotate copies rich cell notes between spreadsheet cells.
package annotate

import (
	"errors"
	"fmt"
	"time"

	"github.com/ukaji3/remarksync-go/pkg/remarksync/models"
)

var (
	// ErrNoteExists is returned by Target.NewNote when the cell already
	// carries a note. Callers clear the destination first.
	ErrNoteExists = errors.New("cell already has a note")
	// ErrUnsupported is returned by hosts for note features they cannot store.
	ErrUnsupported = errors.New("not supported by host")
)

// Style is the presentation applied to every transferred note.
type Style struct {
	AutoSize   bool
	FontFamily string
	FontSize   float64
}

// DefaultStyle auto-sizes the note box and uses Calibri 10.
var DefaultStyle = Style{AutoSize: true, FontFamily: "Calibri", FontSize: 10}

// Target is a destination cell able to receive a note.
type Target interface {
	// NewNote creates a note with the given body on the cell.
	NewNote(text string) (Note, error)
}

// Note is a note being built on a destination cell. Nothing is visible on
// the cell until Commit succeeds.
type Note interface {
	SetAuthor(author string) error
	AddTask(text, assignedTo string, due *time.Time) (TaskNote, error)
	Format(style Style) error
	Commit() error
}

// TaskNote is a task being built on a note.
type TaskNote interface {
	SetStatus(status string) error
	SetPriority(priority int) error
}

// Report lists the best-effort fields that could not be copied.
type Report struct {
	Skipped []string
}

func (r *Report) skip(field string, err error) {
	r.Skipped = append(r.Skipped, fmt.Sprintf("%s (%v)", field, err))
}

// Transfer copies src onto dst as a new note. It does nothing when src is
// nil. The author, every task and each task's status and priority are copied
// best-effort: failures are recorded in the report and the copy continues.
// Errors creating, formatting or committing the note are returned.
func Transfer(src *models.Annotation, dst Target) (Report, error) {
	var report Report
	if src == nil {
		return report, nil
	}

	note, err := dst.NewNote(src.Text)
	if err != nil {
		return report, err
	}

	if src.Author != "" {
		if err := note.SetAuthor(src.Author); err != nil {
			report.skip("author", err)
		}
	}

	for i, task := range src.Tasks {
		tn, err := note.AddTask(task.Text, task.AssignedTo, task.DueDate)
		if err != nil {
			report.skip(fmt.Sprintf("task %d", i+1), err)
			continue
		}
		if task.Status != "" {
			if err := tn.SetStatus(task.Status); err != nil {
				report.skip(fmt.Sprintf("task %d status", i+1), err)
			}
		}
		if task.Priority != 0 {
			if err := tn.SetPriority(task.Priority); err != nil {
				report.skip(fmt.Sprintf("task %d priority", i+1), err)
			}
		}
	}

	if err := note.Format(DefaultStyle); err != nil {
		return report, fmt.Errorf("formatting note: %w", err)
	}
	if err := note.Commit(); err != nil {
		return report, fmt.Errorf("writing note: %w", err)
	}
	return report, nil
}
