package output

import (
	"path/filepath"
	"testing"

	"github.com/ukaji3/remarksync-go/pkg/remarksync/models"
	"github.com/xuri/excelize/v2"
)

func TestWriteTable(t *testing.T) {
	table := &models.Table{
		Columns: []string{"Référence Article", "Qté Vendues", "Code"},
		Rows: [][]string{
			{"A1", "12", "0012"},
			{"B2", "1.5", ""},
		},
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteTable(path, "Taux de rotation", table); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()

	if name := f.GetSheetName(0); name != "Taux de rotation" {
		t.Errorf("Unexpected sheet name %q", name)
	}
	typ, err := f.GetCellType("Taux de rotation", "B2")
	if err != nil {
		t.Fatal(err)
	}
	if typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
		t.Errorf("Expected B2 stored as a number, got type %v", typ)
	}
	if v, _ := f.GetCellValue("Taux de rotation", "C2"); v != "0012" {
		t.Errorf("Expected code with leading zeros kept, got %q", v)
	}
	if v, _ := f.GetCellValue("Taux de rotation", "A1"); v != "Référence Article" {
		t.Errorf("Unexpected header %q", v)
	}
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(&models.Result{OutputPath: "out.xlsx", Matched: 2}, false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if string(data) == "" || data[0] != '{' {
		t.Errorf("Unexpected JSON %s", data)
	}
}
