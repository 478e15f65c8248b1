package host

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/remarksync-go/pkg/remarksync/output"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/parser"
)

// tableWorkbook holds a csv or xls document in memory. Its sheets carry no
// notes and it is saved as xlsx.
type tableWorkbook struct {
	path     string
	charset  string
	readOnly bool
	closed   bool
	sheets   map[string]*tableSheet
}

func openTableWorkbook(path string, readOnly bool, charset string) (*tableWorkbook, error) {
	w := &tableWorkbook{path: path, charset: charset, readOnly: readOnly, sheets: make(map[string]*tableSheet)}
	// fail early on unreadable or unsupported documents
	if _, err := w.Sheet(""); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *tableWorkbook) Name() string { return filepath.Base(w.path) }

func (w *tableWorkbook) Sheet(name string) (Sheet, error) {
	if w.closed {
		return nil, ErrClosed
	}
	if s, ok := w.sheets[name]; ok {
		return s, nil
	}
	f, err := os.Open(w.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := parser.ReadRows(w.Name(), f, parser.LoadOptions{Sheet: name, Charset: w.charset})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", w.Name(), err)
	}
	sheetName := name
	if sheetName == "" {
		sheetName = strings.TrimSuffix(w.Name(), filepath.Ext(w.path))
	}
	s := &tableSheet{name: sheetName, rows: rows}
	w.sheets[name] = s
	return s, nil
}

func (w *tableWorkbook) SaveAs(path string) error {
	if w.closed {
		return ErrClosed
	}
	if w.readOnly {
		return fmt.Errorf("saving %s: %w", w.Name(), ErrReadOnly)
	}
	s, ok := w.sheets[""]
	if !ok {
		for _, s = range w.sheets {
			break
		}
	}
	if s == nil {
		return fmt.Errorf("saving %s: no sheet loaded", w.Name())
	}
	return output.WriteRows(path, s.name, s.rows, 1)
}

func (w *tableWorkbook) Close(save bool) error {
	w.closed = true
	return nil
}

type tableSheet struct {
	name string
	rows [][]string
}

func (s *tableSheet) Name() string { return s.name }

func (s *tableSheet) Rows() ([][]string, error) {
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (s *tableSheet) Value(row, col int) (interface{}, error) {
	if row < 1 || col < 1 {
		return nil, fmt.Errorf("invalid cell (%d, %d)", row, col)
	}
	if row > len(s.rows) || col > len(s.rows[row-1]) {
		return nil, nil
	}
	return parser.ParseValue(s.rows[row-1][col-1]), nil
}

func (s *tableSheet) SetValue(row, col int, value interface{}) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell (%d, %d)", row, col)
	}
	for len(s.rows) < row {
		s.rows = append(s.rows, nil)
	}
	r := s.rows[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = ""
	if value != nil {
		r[col-1] = fmt.Sprint(value)
	}
	s.rows[row-1] = r
	return nil
}

func (s *tableSheet) InsertColumn(col int) error {
	if col < 1 {
		return fmt.Errorf("invalid column %d", col)
	}
	for i, r := range s.rows {
		if len(r) < col-1 {
			continue
		}
		r = append(r, "")
		copy(r[col:], r[col-1:])
		r[col-1] = ""
		s.rows[i] = r
	}
	return nil
}
