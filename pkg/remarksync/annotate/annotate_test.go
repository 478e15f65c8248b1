package annotate

import (
	"errors"
	"testing"
	"time"

	"github.com/ukaji3/remarksync-go/pkg/remarksync/models"
)

type fakeTask struct {
	text, assignee string
	due            *time.Time
	status         string
	priority       int
	failStatus     bool
}

func (t *fakeTask) SetStatus(s string) error {
	if t.failStatus {
		return errors.New("status rejected")
	}
	t.status = s
	return nil
}

func (t *fakeTask) SetPriority(p int) error {
	t.priority = p
	return nil
}

type fakeNote struct {
	text, author string
	tasks        []*fakeTask
	style        Style
	committed    bool
	failAuthor   bool
	failTaskAt   int // 1-based, 0 disables
	failStatusAt int // counts successfully added tasks
}

func (n *fakeNote) SetAuthor(a string) error {
	if n.failAuthor {
		return errors.New("author is read-only")
	}
	n.author = a
	return nil
}

func (n *fakeNote) AddTask(text, assignee string, due *time.Time) (TaskNote, error) {
	if n.failTaskAt == len(n.tasks)+1 {
		n.failTaskAt = -1
		return nil, ErrUnsupported
	}
	t := &fakeTask{text: text, assignee: assignee, due: due}
	if n.failStatusAt == len(n.tasks)+1 {
		t.failStatus = true
	}
	n.tasks = append(n.tasks, t)
	return t, nil
}

func (n *fakeNote) Format(s Style) error {
	n.style = s
	return nil
}

func (n *fakeNote) Commit() error {
	n.committed = true
	return nil
}

type fakeCell struct {
	note    *fakeNote
	created int
	preset  fakeNote
}

func (c *fakeCell) NewNote(text string) (Note, error) {
	if c.note != nil {
		return nil, ErrNoteExists
	}
	n := c.preset
	n.text = text
	c.note = &n
	c.created++
	return c.note, nil
}

func TestTransferNilSource(t *testing.T) {
	cell := &fakeCell{}
	report, err := Transfer(nil, cell)
	if err != nil {
		t.Fatalf("Transfer(nil) failed: %v", err)
	}
	if cell.created != 0 || len(report.Skipped) != 0 {
		t.Errorf("Transfer(nil) should be a no-op")
	}
}

func TestTransferCopiesEverything(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	src := &models.Annotation{
		Text:   "relancer le fournisseur",
		Author: "M. Alaoui",
		Tasks: []models.Task{
			{Text: "appeler", AssignedTo: "achats@example.com", DueDate: &due, Status: "open", Priority: 2},
			{Text: "confirmer"},
		},
	}
	cell := &fakeCell{}

	report, err := Transfer(src, cell)
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if len(report.Skipped) != 0 {
		t.Errorf("Unexpected skipped fields: %v", report.Skipped)
	}

	n := cell.note
	if n.text != src.Text || n.author != src.Author {
		t.Errorf("Expected text/author copied, got %q / %q", n.text, n.author)
	}
	if len(n.tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(n.tasks))
	}
	if n.tasks[0].assignee != "achats@example.com" || n.tasks[0].due == nil || !n.tasks[0].due.Equal(due) {
		t.Errorf("Task 1 not copied: %+v", n.tasks[0])
	}
	if n.tasks[0].status != "open" || n.tasks[0].priority != 2 {
		t.Errorf("Task 1 status/priority not copied: %+v", n.tasks[0])
	}
	if n.style != DefaultStyle || !n.committed {
		t.Errorf("Note should be formatted and committed")
	}
}

func TestTransferBestEffort(t *testing.T) {
	src := &models.Annotation{
		Text:   "body",
		Author: "someone",
		Tasks: []models.Task{
			{Text: "first", Status: "open"},
			{Text: "second", Status: "done"},
			{Text: "third", Status: "open"},
		},
	}
	cell := &fakeCell{preset: fakeNote{failAuthor: true, failTaskAt: 1, failStatusAt: 1}}

	report, err := Transfer(src, cell)
	if err != nil {
		t.Fatalf("best-effort failures must not abort the copy: %v", err)
	}
	if len(report.Skipped) != 3 {
		t.Errorf("Expected author, task 1 and a status skipped, got %v", report.Skipped)
	}
	if len(cell.note.tasks) != 2 {
		t.Fatalf("Expected the remaining 2 tasks copied, got %d", len(cell.note.tasks))
	}
	if cell.note.tasks[1].text != "third" || cell.note.tasks[1].status != "open" {
		t.Errorf("Task after a failure not copied: %+v", cell.note.tasks[1])
	}
	if !cell.note.committed {
		t.Errorf("Note should still be committed")
	}
}

func TestTransferOntoExistingNote(t *testing.T) {
	cell := &fakeCell{note: &fakeNote{text: "old"}}
	_, err := Transfer(&models.Annotation{Text: "new"}, cell)
	if !errors.Is(err, ErrNoteExists) {
		t.Errorf("Expected ErrNoteExists, got %v", err)
	}
}
