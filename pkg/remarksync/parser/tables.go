package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/models"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnsupportedFormat indicates a file extension the loader cannot read.
var ErrUnsupportedFormat = errors.New("file must be .csv, .xlsx or .xls")

// maxXLSRows bounds the rows read from a legacy workbook.
const maxXLSRows = 1 << 20

// LoadOptions configures table loading.
type LoadOptions struct {
	// Sheet selects a worksheet by name (xlsx and xls). Empty means the first sheet.
	Sheet string
	// HeaderMarker enables header auto-detection: the header is the first row
	// containing this text. Empty means the header is the first row.
	HeaderMarker string
	// MaxScanRows bounds the header search (default DefaultMaxScanRows).
	MaxScanRows int
	// Charset is the IANA name of the csv encoding (default UTF-8).
	Charset string
	// Comma is the csv delimiter (default ';').
	Comma rune
}

// LoadTableFile opens path and loads it with LoadTable.
func LoadTableFile(path string, opts LoadOptions) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTable(filepath.Base(path), f, opts)
}

// LoadTable reads a table from r, dispatching on the extension of name.
func LoadTable(name string, r io.Reader, opts LoadOptions) (*models.Table, error) {
	rows, err := ReadRows(name, r, opts)
	if err != nil {
		return nil, err
	}
	return BuildTable(name, rows, opts)
}

// ReadRows returns the raw rows of the selected sheet of a csv, xlsx or xls
// document, without assuming any header.
func ReadRows(name string, r io.Reader, opts LoadOptions) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return readCSV(r, opts)
	case ".xlsx", ".xlsm":
		return readXLSX(r, opts.Sheet)
	case ".xls":
		return readXLS(r, opts.Sheet)
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}

// BuildTable locates the header in rows and returns the data below it.
// Blank rows are dropped and every row is sized to the header.
func BuildTable(name string, rows [][]string, opts LoadOptions) (*models.Table, error) {
	headerRow := 0
	if opts.HeaderMarker != "" {
		idx, err := LocateHeaderRow(rows, opts.HeaderMarker, opts.MaxScanRows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		headerRow = idx
	}
	if len(rows) <= headerRow {
		return nil, fmt.Errorf("%s: worksheet is empty", name)
	}

	t := &models.Table{
		Name:    name,
		Columns: TrimHeader(rows[headerRow]),
	}
	for _, row := range rows[headerRow+1:] {
		if blank(row) {
			continue
		}
		out := make([]string, len(t.Columns))
		copy(out, row)
		t.Rows = append(t.Rows, out)
	}
	return t, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readCSV(r io.Reader, opts LoadOptions) ([][]string, error) {
	dec, err := csvDecoder(opts.Charset)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(dec.Reader(r))
	reader.Comma = ';'
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return rows, nil
}

// csvDecoder resolves a charset name; UTF-8 input has its BOM stripped.
func csvDecoder(charset string) (*encoding.Decoder, error) {
	charset = strings.TrimSpace(charset)
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return unicode.UTF8BOM.NewDecoder(), nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown charset %q", charset)
	}
	return enc.NewDecoder(), nil
}

func readXLSX(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		sheet = sheets[0]
	}
	return f.GetRows(sheet)
}

func readXLS(r io.Reader, sheet string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}

	ws := wb.GetSheet(0)
	if sheet != "" {
		ws = nil
		for i := 0; i < wb.NumSheets(); i++ {
			if s := wb.GetSheet(i); s != nil && s.Name == sheet {
				ws = s
				break
			}
		}
		if ws == nil {
			return nil, fmt.Errorf("worksheet %q %w", sheet, ErrNotFound)
		}
	}

	var rows [][]string
	for i := 0; i <= int(ws.MaxRow) && i < maxXLSRows; i++ {
		rows = append(rows, xlsRow(ws, i))
	}
	return rows, nil
}

// xlsRow returns the cells of row i; the xls reader panics on rows it never
// stored, which are returned as empty.
func xlsRow(ws *xls.WorkSheet, i int) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()
	row := ws.Row(i)
	if row == nil {
		return nil
	}
	cells = make([]string, row.LastCol()+1)
	for c := row.FirstCol(); c <= row.LastCol(); c++ {
		cells[c] = row.Col(c)
	}
	return cells
}
