package host

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ukaji3/remarksync-go/pkg/remarksync/annotate"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/models"
	"github.com/xuri/excelize/v2"
)

// ExcelLauncher returns a Launcher for the in-process excelize application.
// charset is used to decode CSV documents opened through it.
func ExcelLauncher(charset string) Launcher {
	return func(opts LaunchOptions) (Application, error) {
		return &ExcelApp{opts: opts, charset: charset, alerts: opts.DisplayAlerts}, nil
	}
}

// ExcelApp is an Application that edits xlsx workbooks with excelize. CSV and
// legacy xls documents open as plain sheets without notes.
//
// Notes are legacy cell comments, which cannot hold tasks: every task of a
// carried note is reported in models.Result.SkippedFields. Cells with a date
// or time number format read as time.Time.
type ExcelApp struct {
	opts    LaunchOptions
	charset string

	mu        sync.Mutex
	alerts    bool
	closed    bool
	workbooks []Workbook
}

// Open opens the document at path.
func (a *ExcelApp) Open(path string, readOnly bool) (Workbook, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, ErrClosed
	}

	var (
		wb  Workbook
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		wb, err = openExcelWorkbook(path, readOnly)
	default:
		wb, err = openTableWorkbook(path, readOnly, a.charset)
	}
	if err != nil {
		return nil, err
	}
	a.workbooks = append(a.workbooks, wb)
	return wb, nil
}

// SetDisplayAlerts records the alert setting.
func (a *ExcelApp) SetDisplayAlerts(on bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = on
	return nil
}

// Quit closes every workbook still open without saving.
func (a *ExcelApp) Quit() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	var firstErr error
	for _, wb := range a.workbooks {
		if err := wb.Close(false); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.workbooks = nil
	a.closed = true
	return firstErr
}

// Release is a no-op once Quit has run.
func (a *ExcelApp) Release() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.closed {
		return fmt.Errorf("release before quit: %w", ErrHostFailure)
	}
	return nil
}

type excelWorkbook struct {
	f        *excelize.File
	path     string
	readOnly bool
	closed   bool
	sheets   map[string]*excelSheet
}

func openExcelWorkbook(path string, readOnly bool) (*excelWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	return &excelWorkbook{f: f, path: path, readOnly: readOnly, sheets: make(map[string]*excelSheet)}, nil
}

func (w *excelWorkbook) Name() string { return filepath.Base(w.path) }

func (w *excelWorkbook) Sheet(name string) (Sheet, error) {
	if w.closed {
		return nil, ErrClosed
	}
	if name == "" {
		list := w.f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", w.Name())
		}
		name = list[0]
	} else {
		idx, err := w.f.GetSheetIndex(name)
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			return nil, fmt.Errorf("sheet %q not found in %s", name, w.Name())
		}
		// canonical casing
		name = w.f.GetSheetName(idx)
	}
	if s, ok := w.sheets[name]; ok {
		return s, nil
	}
	s := &excelSheet{f: w.f, name: name}
	w.sheets[name] = s
	return s, nil
}

func (w *excelWorkbook) SaveAs(path string) error {
	if w.closed {
		return ErrClosed
	}
	if w.readOnly {
		return fmt.Errorf("saving %s: %w", w.Name(), ErrReadOnly)
	}
	return w.f.SaveAs(path)
}

func (w *excelWorkbook) Close(save bool) error {
	if w.closed {
		return nil
	}
	w.closed = true
	if save && !w.readOnly {
		if err := w.f.Save(); err != nil {
			w.f.Close()
			return err
		}
	}
	return w.f.Close()
}

// excelSheet is a worksheet whose notes are legacy cell comments.
type excelSheet struct {
	f    *excelize.File
	name string

	// comments by cell reference, loaded on first use
	comments map[string]excelize.Comment
}

func (s *excelSheet) Name() string { return s.name }

func (s *excelSheet) Rows() ([][]string, error) {
	return s.f.GetRows(s.name)
}

func (s *excelSheet) Value(row, col int) (interface{}, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	typ, err := s.f.GetCellType(s.name, cell)
	if err != nil {
		return nil, err
	}
	raw, err := s.f.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw, nil
		}
		date, err := s.dateStyled(cell)
		if err != nil {
			return nil, err
		}
		if date {
			if t, ok := s.excelTime(f); ok {
				return t, nil
			}
		}
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i, nil
		}
		return f, nil
	default:
		return raw, nil
	}
}

// dateStyled reports whether the number format of cell displays a date or a
// time.
func (s *excelSheet) dateStyled(cell string) (bool, error) {
	idx, err := s.f.GetCellStyle(s.name, cell)
	if err != nil || idx == 0 {
		return false, err
	}
	style, err := s.f.GetStyle(idx)
	if err != nil {
		return false, err
	}
	if style.CustomNumFmt != nil {
		return isDateFormat(*style.CustomNumFmt), nil
	}
	return isDateNumFmt(style.NumFmt), nil
}

func (s *excelSheet) excelTime(serial float64) (time.Time, bool) {
	var date1904 bool
	if props, err := s.f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	return t, err == nil
}

// isDateNumFmt reports whether a built-in number format id is a date or time
// format, including the east asian ones.
func isDateNumFmt(id int) bool {
	switch {
	case 14 <= id && id <= 22, 27 <= id && id <= 36, 45 <= id && id <= 47, 50 <= id && id <= 58:
		return true
	}
	return false
}

// isDateFormat reports whether the first section of a custom format code
// holds a date or time token once literals, escapes and bracketed colors or
// locales are removed.
func isDateFormat(code string) bool {
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	var quoted, bracket, escaped bool
	var sb, section strings.Builder
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case quoted:
			quoted = r != '"'
		case bracket:
			if r != ']' {
				section.WriteRune(r)
				continue
			}
			bracket = false
			// elapsed time such as [h]:mm
			if elapsed := section.String(); elapsed != "" && strings.Trim(strings.ToLower(elapsed), "hms") == "" {
				sb.WriteString(elapsed)
			}
			section.Reset()
		case r == '\\':
			escaped = true
		case r == '"':
			quoted = true
		case r == '[':
			bracket = true
		default:
			sb.WriteRune(r)
		}
	}
	return strings.ContainsAny(strings.ToLower(sb.String()), "ymdhs")
}

func (s *excelSheet) SetValue(row, col int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.f.SetCellValue(s.name, cell, value)
}

// InsertColumn inserts a blank column and moves the comments at or right of
// it along with their cells.
func (s *excelSheet) InsertColumn(col int) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	if err := s.loadComments(); err != nil {
		return err
	}

	var moved []excelize.Comment
	for _, c := range s.comments {
		cc, _, err := excelize.CellNameToCoordinates(c.Cell)
		if err != nil {
			return err
		}
		if cc >= col {
			moved = append(moved, c)
		}
	}
	sort.Slice(moved, func(i, j int) bool { return moved[i].Cell < moved[j].Cell })

	for _, c := range moved {
		if err := s.f.DeleteComment(s.name, c.Cell); err != nil {
			return fmt.Errorf("moving note %s: %w", c.Cell, err)
		}
	}
	if err := s.f.InsertCols(s.name, name, 1); err != nil {
		return err
	}
	for _, c := range moved {
		cc, rr, _ := excelize.CellNameToCoordinates(c.Cell)
		c.Cell, err = excelize.CoordinatesToCellName(cc+1, rr)
		if err != nil {
			return err
		}
		if err := s.f.AddComment(s.name, c); err != nil {
			return fmt.Errorf("moving note to %s: %w", c.Cell, err)
		}
	}
	s.comments = nil
	return nil
}

func (s *excelSheet) loadComments() error {
	if s.comments != nil {
		return nil
	}
	list, err := s.f.GetComments(s.name)
	if err != nil {
		return err
	}
	s.comments = make(map[string]excelize.Comment, len(list))
	for _, c := range list {
		s.comments[c.Cell] = c
	}
	return nil
}

func (s *excelSheet) Annotation(row, col int) (*models.Annotation, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	if err := s.loadComments(); err != nil {
		return nil, err
	}
	c, ok := s.comments[cell]
	if !ok {
		return nil, nil
	}
	return commentAnnotation(c), nil
}

func commentAnnotation(c excelize.Comment) *models.Annotation {
	var sb strings.Builder
	sb.WriteString(c.Text)
	for _, run := range c.Paragraph {
		sb.WriteString(run.Text)
	}
	return &models.Annotation{Text: sb.String(), Author: c.Author}
}

func (s *excelSheet) ClearAnnotation(row, col int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := s.loadComments(); err != nil {
		return err
	}
	if _, ok := s.comments[cell]; !ok {
		return nil
	}
	if err := s.f.DeleteComment(s.name, cell); err != nil {
		return err
	}
	delete(s.comments, cell)
	return nil
}

func (s *excelSheet) Cell(row, col int) annotate.Target {
	return &commentTarget{sheet: s, row: row, col: col}
}

type commentTarget struct {
	sheet    *excelSheet
	row, col int
}

func (t *commentTarget) NewNote(text string) (annotate.Note, error) {
	existing, err := t.sheet.Annotation(t.row, t.col)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, annotate.ErrNoteExists
	}
	cell, _ := excelize.CoordinatesToCellName(t.col, t.row)
	return &commentNote{sheet: t.sheet, cell: cell, text: text}, nil
}

type commentNote struct {
	sheet  *excelSheet
	cell   string
	text   string
	author string
	style  annotate.Style
}

func (n *commentNote) SetAuthor(author string) error {
	n.author = author
	return nil
}

// AddTask fails: legacy comments cannot hold threaded tasks.
func (n *commentNote) AddTask(text, assignedTo string, due *time.Time) (annotate.TaskNote, error) {
	return nil, fmt.Errorf("comment tasks: %w", annotate.ErrUnsupported)
}

func (n *commentNote) Format(style annotate.Style) error {
	n.style = style
	return nil
}

func (n *commentNote) Commit() error {
	c := excelize.Comment{
		Cell:   n.cell,
		Author: n.author,
		Paragraph: []excelize.RichTextRun{{
			Text: n.text,
			Font: &excelize.Font{Family: n.style.FontFamily, Size: n.style.FontSize},
		}},
	}
	if n.style.AutoSize {
		c.Width, c.Height = noteSize(n.text, n.style.FontSize)
	}
	if err := n.sheet.f.AddComment(n.sheet.name, c); err != nil {
		return err
	}
	if n.sheet.comments != nil {
		n.sheet.comments[n.cell] = c
	}
	return nil
}

// noteSize fits the comment box to the longest line and the line count.
func noteSize(text string, fontSize float64) (width, height uint) {
	if fontSize <= 0 {
		fontSize = 10
	}
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > longest {
			longest = n
		}
	}
	charW := fontSize * 0.6
	lineH := fontSize * 1.5
	w := uint(float64(longest)*charW) + 16
	h := uint(float64(len(lines))*lineH) + 12
	if w < 96 {
		w = 96
	}
	if w > 480 {
		w = 480
	}
	if h < 40 {
		h = 40
	}
	return w, h
}
