package output

import (
	"github.com/ukaji3/remarksync-go/pkg/remarksync/models"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/parser"
	"github.com/xuri/excelize/v2"
)

// NewRowsFile builds a single-sheet workbook from raw rows. The first
// headerRows rows are written as text, the others are typed with
// parser.ParseValue so numbers stay numbers.
func NewRowsFile(sheet string, rows [][]string, headerRows int) (*excelize.File, error) {
	f := excelize.NewFile()
	if sheet != "" && sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			f.Close()
			return nil, err
		}
	} else {
		sheet = "Sheet1"
	}

	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, s := range row {
			if i < headerRows {
				values[j] = s
			} else {
				values[j] = parser.ParseValue(s)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteRows saves rows as a single-sheet xlsx at path.
func WriteRows(path, sheet string, rows [][]string, headerRows int) error {
	f, err := NewRowsFile(sheet, rows, headerRows)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// WriteTable saves t as a single-sheet xlsx at path.
func WriteTable(path, sheet string, t *models.Table) error {
	return WriteRows(path, sheet, tableRows(t), 1)
}

func tableRows(t *models.Table) [][]string {
	rows := make([][]string, 0, len(t.Rows)+1)
	rows = append(rows, t.Columns)
	rows = append(rows, t.Rows...)
	return rows
}
