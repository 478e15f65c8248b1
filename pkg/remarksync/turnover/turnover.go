// Package turnover computes inventory turnover ratios from stock, sales and
// stock movement extracts.
package turnover

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/models"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/parser"
)

// Column labels of the extracts.
const (
	ColReference   = "Référence Article"
	ColDesignation = "Désignation Article"
	ColStock       = "Qté Stock Réel"
	ColSold        = "Qté Vendues"
	ColRevenue     = "Chiffre d'affaires HT"
	ColMovement    = "Qté Mouvement"
	ColQuantity    = "Quantité"
	ColFamily      = "Code - Intitulé Famille"
	ColRatio       = "Taux de rotation"
	ColArticles    = "Nombre d'articles"
)

// RatioPlaces is the number of decimals kept when a ratio is rendered.
const RatioPlaces = 4

// Row is the turnover of one article.
type Row struct {
	Reference   string
	Designation string
	Family      string
	// Out is the quantity sold or moved out of stock.
	Out     decimal.Decimal
	Stock   decimal.Decimal
	Revenue decimal.Decimal
	// Ratio is Out / Stock, nil when the stock is zero.
	Ratio *decimal.Decimal
}

// FamilyRow is the turnover of an article family.
type FamilyRow struct {
	Family   string
	Articles int
	Out      decimal.Decimal
	Stock    decimal.Decimal
	Revenue  decimal.Decimal
	Ratio    *decimal.Decimal
}

func ratio(out, stock decimal.Decimal) *decimal.Decimal {
	if stock.IsZero() {
		return nil
	}
	r := out.Div(stock)
	return &r
}

func require(t *models.Table, names ...string) error {
	for _, n := range names {
		if t.ColumnIndex(n) < 0 {
			return &parser.MissingColumnError{Column: n, Source: t.Name}
		}
	}
	return nil
}

func number(t *models.Table, row int, col string) (decimal.Decimal, error) {
	d, err := parser.CleanNumber(t.Value(row, col))
	if err != nil {
		return d, fmt.Errorf("%s row %d column %q: %w", t.Name, row+1, col, err)
	}
	return d, nil
}

// articleKey is the join key of a row: its normalized article reference.
func articleKey(t *models.Table, row int) string {
	return parser.BuildKey(t.Record(row), []string{ColReference}).String()
}

type totals struct {
	out, revenue decimal.Decimal
	family       string
}

// WithSales joins the stock extract with the sales extract on the article
// reference. Articles without sales count zero sold and zero revenue; sales
// lines of the same article are summed.
func WithSales(stock, sales *models.Table) ([]Row, error) {
	if err := require(stock, ColReference, ColStock); err != nil {
		return nil, err
	}
	if err := require(sales, ColReference, ColSold, ColRevenue); err != nil {
		return nil, err
	}

	sold := make(map[string]*totals)
	for i := range sales.Rows {
		ref := articleKey(sales, i)
		if ref == "" {
			continue
		}
		q, err := number(sales, i, ColSold)
		if err != nil {
			return nil, err
		}
		ca, err := number(sales, i, ColRevenue)
		if err != nil {
			return nil, err
		}
		tot, ok := sold[ref]
		if !ok {
			tot = &totals{}
			sold[ref] = tot
		}
		tot.out = tot.out.Add(q)
		tot.revenue = tot.revenue.Add(ca)
	}
	return join(stock, sold)
}

// WithMovements joins the stock extract with a stock movement extract on the
// article reference. The moved quantity is read from "Qté Mouvement", or
// "Quantité" when the former is absent, and summed in absolute value per
// article. The family comes from the stock extract, or from the movements
// when the stock extract has none.
func WithMovements(stock, moves *models.Table) ([]Row, error) {
	if err := require(stock, ColReference, ColStock); err != nil {
		return nil, err
	}
	qtyCol := ColMovement
	if moves.ColumnIndex(qtyCol) < 0 {
		qtyCol = ColQuantity
	}
	if err := require(moves, ColReference, qtyCol); err != nil {
		return nil, err
	}

	moved := make(map[string]*totals)
	for i := range moves.Rows {
		ref := articleKey(moves, i)
		if ref == "" {
			continue
		}
		q, err := number(moves, i, qtyCol)
		if err != nil {
			return nil, err
		}
		tot, ok := moved[ref]
		if !ok {
			tot = &totals{family: moves.Value(i, ColFamily)}
			moved[ref] = tot
		}
		tot.out = tot.out.Add(q.Abs())
	}
	return join(stock, moved)
}

func join(stock *models.Table, out map[string]*totals) ([]Row, error) {
	rows := make([]Row, 0, len(stock.Rows))
	for i := range stock.Rows {
		key := articleKey(stock, i)
		if key == "" {
			continue
		}
		qty, err := number(stock, i, ColStock)
		if err != nil {
			return nil, err
		}
		row := Row{
			Reference:   stock.Value(i, ColReference),
			Designation: stock.Value(i, ColDesignation),
			Family:      stock.Value(i, ColFamily),
			Stock:       qty,
		}
		if tot, ok := out[key]; ok {
			row.Out = tot.out
			row.Revenue = tot.revenue
			if row.Family == "" {
				row.Family = tot.family
			}
		}
		row.Ratio = ratio(row.Out, row.Stock)
		rows = append(rows, row)
	}
	return rows, nil
}

// ByFamily sums quantities per family and recomputes the ratio on the sums.
// Families are sorted by name.
func ByFamily(rows []Row) []FamilyRow {
	byName := make(map[string]*FamilyRow)
	for _, r := range rows {
		fr, ok := byName[r.Family]
		if !ok {
			fr = &FamilyRow{Family: r.Family}
			byName[r.Family] = fr
		}
		fr.Articles++
		fr.Out = fr.Out.Add(r.Out)
		fr.Stock = fr.Stock.Add(r.Stock)
		fr.Revenue = fr.Revenue.Add(r.Revenue)
	}

	out := make([]FamilyRow, 0, len(byName))
	for _, fr := range byName {
		fr.Ratio = ratio(fr.Out, fr.Stock)
		out = append(out, *fr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Family < out[j].Family })
	return out
}

func formatRatio(r *decimal.Decimal) string {
	if r == nil {
		return ""
	}
	return r.Round(RatioPlaces).String()
}

// Table renders article rows with outLabel as the heading of the quantity
// out ("Qté Vendues" or "Qté Mouvement").
func Table(name, outLabel string, rows []Row) *models.Table {
	t := &models.Table{
		Name:    name,
		Columns: []string{ColReference, ColDesignation, outLabel, ColStock, ColRevenue, ColRatio},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Reference, r.Designation, r.Out.String(), r.Stock.String(), r.Revenue.String(), formatRatio(r.Ratio),
		})
	}
	return t
}

// FamilyTable renders family rows.
func FamilyTable(name, outLabel string, rows []FamilyRow) *models.Table {
	t := &models.Table{
		Name:    name,
		Columns: []string{ColFamily, ColArticles, outLabel, ColStock, ColRatio},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Family, fmt.Sprint(r.Articles), r.Out.String(), r.Stock.String(), formatRatio(r.Ratio),
		})
	}
	return t
}
