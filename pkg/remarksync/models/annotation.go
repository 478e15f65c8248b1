package models

import (
	"time"

	"github.com/tiendc/go-deepcopy"
)

// Task is a follow-up record attached to an annotation.
type Task struct {
	// Text is the task description.
	Text string `json:"text"`
	// AssignedTo is the assignee display name or address.
	AssignedTo string `json:"assigned_to,omitempty"`
	// DueDate is the optional due date.
	DueDate *time.Time `json:"due_date,omitempty"`
	// Status is the host-specific status label (e.g. "open", "completed").
	Status string `json:"status,omitempty"`
	// Priority is the host-specific priority level.
	Priority int `json:"priority,omitempty"`
}

// Annotation is a rich note attached to a cell.
type Annotation struct {
	// Text is the note body.
	Text string `json:"text"`
	// Author is the note author (optional).
	Author string `json:"author,omitempty"`
	// Tasks are the ordered task records of the note.
	Tasks []Task `json:"tasks,omitempty"`
}

// Clone returns an independent deep copy of the annotation.
// A nil annotation clones to nil.
func (a *Annotation) Clone() (*Annotation, error) {
	if a == nil {
		return nil, nil
	}
	var dst Annotation
	if err := deepcopy.Copy(&dst, a); err != nil {
		return nil, err
	}
	return &dst, nil
}
