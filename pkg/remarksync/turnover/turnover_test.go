package turnover

import (
	"errors"
	"testing"

	"github.com/ukaji3/remarksync-go/pkg/remarksync/models"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/parser"
)

func stockTable() *models.Table {
	return &models.Table{
		Name:    "stock.csv",
		Columns: []string{ColReference, ColDesignation, ColStock, ColFamily},
		Rows: [][]string{
			{"A1", "Joint", "1\u00a0000", "F1 - Joints"},
			{"B2", "Vis", "0", "F2 - Visserie"},
			{"C3", "Écrou", "4,5", "F2 - Visserie"},
		},
	}
}

func TestWithSales(t *testing.T) {
	sales := &models.Table{
		Name:    "ventes.csv",
		Columns: []string{ColReference, ColDesignation, ColSold, ColRevenue},
		Rows: [][]string{
			{"A1", "Joint", "200", "1 250,50"},
			{"a1 ", "Joint", "50", "100"},
			{"B2", "Vis", "3", "9"},
		},
	}

	rows, err := WithSales(stockTable(), sales)
	if err != nil {
		t.Fatalf("WithSales failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}

	tests := []struct {
		ref     string
		out     string
		revenue string
		ratio   string
	}{
		{"A1", "250", "1350.5", "0.25"},
		{"B2", "3", "9", ""},
		{"C3", "0", "0", "0"},
	}
	for i, tt := range tests {
		r := rows[i]
		if r.Reference != tt.ref || r.Out.String() != tt.out || r.Revenue.String() != tt.revenue || formatRatio(r.Ratio) != tt.ratio {
			t.Errorf("row %d = {%s %s %s %s}, expected %+v",
				i, r.Reference, r.Out, r.Revenue, formatRatio(r.Ratio), tt)
		}
	}
	if rows[1].Ratio != nil {
		t.Error("Expected an undefined ratio for zero stock")
	}
}

func TestWithSalesMissingColumn(t *testing.T) {
	sales := &models.Table{Name: "ventes.csv", Columns: []string{ColReference, ColSold}}
	_, err := WithSales(stockTable(), sales)
	if !errors.Is(err, parser.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	var mc *parser.MissingColumnError
	if !errors.As(err, &mc) || mc.Column != ColRevenue {
		t.Errorf("Expected %q named, got %v", ColRevenue, err)
	}
}

func TestWithSalesInvalidNumber(t *testing.T) {
	sales := &models.Table{
		Name:    "ventes.csv",
		Columns: []string{ColReference, ColSold, ColRevenue},
		Rows:    [][]string{{"A1", "douze", "1"}},
	}
	if _, err := WithSales(stockTable(), sales); err == nil {
		t.Error("Expected an error for a non-numeric quantity")
	}
}

func TestWithMovementsAndFamilies(t *testing.T) {
	moves := &models.Table{
		Name:    "mouvements.xlsx",
		Columns: []string{ColReference, ColQuantity},
		Rows: [][]string{
			{"A1", "-100"},
			{"A1", "-400"},
			{"C3", "9"},
		},
	}

	rows, err := WithMovements(stockTable(), moves)
	if err != nil {
		t.Fatalf("WithMovements failed: %v", err)
	}
	if got := formatRatio(rows[0].Ratio); got != "0.5" {
		t.Errorf("A1 ratio = %q, expected 0.5", got)
	}
	if got := formatRatio(rows[2].Ratio); got != "2" {
		t.Errorf("C3 ratio = %q, expected 2", got)
	}

	families := ByFamily(rows)
	if len(families) != 2 {
		t.Fatalf("Expected 2 families, got %d", len(families))
	}
	f2 := families[1]
	if f2.Family != "F2 - Visserie" || f2.Articles != 2 || f2.Out.String() != "9" || f2.Stock.String() != "4.5" {
		t.Errorf("Unexpected family %+v", f2)
	}
	if got := formatRatio(f2.Ratio); got != "2" {
		t.Errorf("F2 ratio = %q, expected 2", got)
	}

	table := FamilyTable("familles", ColMovement, families)
	if len(table.Rows) != 2 || table.Rows[0][0] != "F1 - Joints" || table.Rows[0][1] != "1" {
		t.Errorf("Unexpected family table %+v", table.Rows)
	}
}

func TestTable(t *testing.T) {
	rows, err := WithSales(stockTable(), &models.Table{Columns: []string{ColReference, ColSold, ColRevenue}})
	if err != nil {
		t.Fatal(err)
	}
	table := Table("Taux de rotation", ColSold, rows)
	if table.Columns[2] != ColSold || table.Columns[5] != ColRatio {
		t.Errorf("Unexpected columns %q", table.Columns)
	}
	if table.Rows[0][3] != "1000" || table.Rows[1][5] != "" {
		t.Errorf("Unexpected rows %q", table.Rows)
	}
}
