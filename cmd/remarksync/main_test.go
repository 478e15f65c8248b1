package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("remarksync %s failed: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestProfilesCommand(t *testing.T) {
	out := execute(t, "profiles")
	for _, want := range []string{"order-tracking", "N° Pièce", "delivery"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestTurnoverCommand(t *testing.T) {
	dir := t.TempDir()
	stock := filepath.Join(dir, "stock.csv")
	sales := filepath.Join(dir, "ventes.csv")
	if err := os.WriteFile(stock, []byte("Référence Article;Désignation Article;Qté Stock Réel\nA1;Joint;10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sales, []byte("Référence Article;Qté Vendues;Chiffre d'affaires HT\nA1;5;12,5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(dir, "out")
	execute(t, "turnover", stock, sales, "--output-dir", outDir)

	f, err := excelize.OpenFile(filepath.Join(outDir, "resultat_taux_rotation.xlsx"))
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Taux de rotation", "F2"); v != "0.5" {
		t.Errorf("F2 = %q, expected 0.5", v)
	}
	if v, _ := f.GetCellValue("Taux de rotation", "E2"); v != "12.5" {
		t.Errorf("E2 = %q, expected 12.5", v)
	}
}

func TestCarryoverCommand(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.xlsx")
	newPath := filepath.Join(dir, "new.xlsx")
	for path, rows := range map[string][][]interface{}{
		oldPath: {{"N° Pièce", "Réf. Article", "Remarques"}, {"P1", "A1", "fix broken seal"}},
		newPath: {{"N° Pièce", "Réf. Article", "Remarques"}, {"P1", "A1", nil}},
	} {
		f := excelize.NewFile()
		for i, row := range rows {
			row := row
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
				t.Fatal(err)
			}
		}
		if err := f.SaveAs(path); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}

	out := filepath.Join(dir, "result.xlsx")
	summary := execute(t, "carryover", oldPath, newPath, "-o", out, "--json")
	if !strings.Contains(summary, `"matched":1`) {
		t.Errorf("Unexpected summary %s", summary)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Sheet1", "C2"); v != "fix broken seal" {
		t.Errorf("C2 = %q, expected fix broken seal", v)
	}
}

// writeDeliveryBook saves rows on a Feuil2 sheet placed after an unrelated
// first sheet.
func writeDeliveryBook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "Feuil1"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Feuil1", "A1", "Synthèse"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NewSheet("Feuil2"); err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		row := row
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Feuil2", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestDeliveryCommand(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, "bl_mars.xlsx")
	previous := filepath.Join(dir, "bl_fevrier.xlsx")
	writeDeliveryBook(t, current, [][]interface{}{
		{"Extrait des bons de livraison"},
		{},
		{"N° Compte Client", "N° Pièce", "Prix Revient Total", "REMARQUES"},
		{"C01", "BL1", 10, "livré"},
	})
	writeDeliveryBook(t, previous, [][]interface{}{
		{"N° Compte Client", "N° Pièce", "Remarques"},
		{"C01", "bl1", "relance"},
		{"C01", "BL1", "relance 2"},
	})

	outDir := filepath.Join(dir, "out")
	out := execute(t, "delivery", current, previous, "--output-dir", outDir)
	dedupPath := filepath.Join(outDir, "fusion_bl.xlsx")
	rawPath := filepath.Join(outDir, "fusion_bl_doublons.xlsx")
	if !strings.Contains(out, "fusion_bl.xlsx") || !strings.Contains(out, "fusion_bl_doublons.xlsx") {
		t.Errorf("Expected both output paths, got:\n%s", out)
	}

	f, err := excelize.OpenFile(dedupPath)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()
	tests := []struct {
		cell     string
		expected string
	}{
		{"B1", "N° Pièce"},
		{"C1", "REMARQUES_anciennes"},
		{"D1", "REMARQUES_nouvelles"},
		{"C2", "relance"},
		{"D2", "livré"},
	}
	for _, tt := range tests {
		if v, _ := f.GetCellValue("Fusion BL", tt.cell); v != tt.expected {
			t.Errorf("%s = %q, expected %q", tt.cell, v, tt.expected)
		}
	}

	raw, err := excelize.OpenFile(rawPath)
	if err != nil {
		t.Fatalf("Failed to open raw output: %v", err)
	}
	defer raw.Close()
	rows, err := raw.GetRows("Fusion BL (doublons)")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header and 2 raw rows, got %d", len(rows))
	}
	if rows[2][4] != "relance 2" {
		t.Errorf("Unexpected raw row %q", rows[2])
	}
}

func TestTurnoverMovementCommand(t *testing.T) {
	dir := t.TempDir()
	stock := filepath.Join(dir, "stock.csv")
	moves := filepath.Join(dir, "mouvements.csv")
	if err := os.WriteFile(stock, []byte("Référence Article;Désignation Article;Qté Stock Réel;Code - Intitulé Famille\nA1;Joint;10;F1 - Joints\nB2;Vis;4;F1 - Joints\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(moves, []byte("Mouvements de stock\nRéférence Article;Qté Mouvement\nA1;-5\na1;-3\nB2;2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(dir, "out")
	execute(t, "turnover-movement", stock, moves, "--output-dir", outDir)

	articles, err := excelize.OpenFile(filepath.Join(outDir, "taux_de_rotation_articles.xlsx"))
	if err != nil {
		t.Fatalf("Failed to open articles output: %v", err)
	}
	defer articles.Close()
	for cell, expected := range map[string]string{"C1": "Qté Mouvement", "C2": "8", "F2": "0.8", "F3": "0.5"} {
		if v, _ := articles.GetCellValue("Taux de rotation par article", cell); v != expected {
			t.Errorf("articles %s = %q, expected %q", cell, v, expected)
		}
	}

	families, err := excelize.OpenFile(filepath.Join(outDir, "taux_de_rotation_familles.xlsx"))
	if err != nil {
		t.Fatalf("Failed to open families output: %v", err)
	}
	defer families.Close()
	for cell, expected := range map[string]string{"A2": "F1 - Joints", "B2": "2", "C2": "10", "D2": "14", "E2": "0.7143"} {
		if v, _ := families.GetCellValue("Taux de rotation par famille", cell); v != expected {
			t.Errorf("families %s = %q, expected %q", cell, v, expected)
		}
	}
}
