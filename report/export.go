/*
export.go - CSV export of report and history rows

PURPOSE:
  Serialises flat string-keyed rows to CSV for download. Supports an
  optional date filter: when a filter date is given, only rows whose
  "date" field equals it (string equality, YYYY-MM-DD) are written.
  When the filtered row set is empty nothing is written and the success
  flag is false, so callers can tell the user instead of producing an
  empty file.

  Money cells are rendered with two decimals; quantities likewise. The
  builders below keep the spreadsheet column names of the original
  reports alongside a plain "date" key that drives filtering.
*/
package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/midday/kitchen-engine/inventory"
	"github.com/midday/kitchen-engine/ledger"
)

// Row is one flat export record. Keys are column names; the reserved
// "date" key (lowercase) carries the YYYY-MM-DD value used for filtering
// and is not emitted as a column.
type Row map[string]string

// filterKey is matched against the filter date but never written out.
const filterKey = "date"

// WriteRowsCSV writes header and rows to w. filterDate, when non-empty,
// keeps only rows whose "date" field equals it. Returns false without
// writing anything when the (filtered) row set is empty.
func WriteRowsCSV(w io.Writer, header []string, rows []Row, filterDate string) (bool, error) {
	filtered := rows
	if filterDate != "" {
		filtered = filtered[:0:0]
		for _, row := range rows {
			if row[filterKey] == filterDate {
				filtered = append(filtered, row)
			}
		}
	}
	if len(filtered) == 0 {
		return false, nil
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return false, err
	}
	record := make([]string, len(header))
	for _, row := range filtered {
		for i, col := range header {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			return false, err
		}
	}
	writer.Flush()
	return true, writer.Error()
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// =============================================================================
// ROW BUILDERS
// =============================================================================

// MonthlyCostHeader and MonthlyCostRows render the monthly summary.
var MonthlyCostHeader = []string{"Month", "Total Purchase Cost (INR)", "Total Meal Cost (INR)"}

func MonthlyCostRows(costs []MonthlyCost) []Row {
	rows := make([]Row, len(costs))
	for i, c := range costs {
		rows[i] = Row{
			"Month":                     c.Month,
			"Total Purchase Cost (INR)": money(c.Purchase),
			"Total Meal Cost (INR)":     money(c.Meal),
		}
	}
	return rows
}

// UsageHeader and UsageRows render the ingredient usage summary.
var UsageHeader = []string{"Ingredient Name", "Total Quantity Used"}

func UsageRows(usage []IngredientUsage) []Row {
	rows := make([]Row, len(usage))
	for i, u := range usage {
		rows[i] = Row{
			"Ingredient Name":     u.Name,
			"Total Quantity Used": money(u.Quantity),
		}
	}
	return rows
}

// PurchaseHeader and PurchaseRows render the purchase history, including
// the derived per-kg price for weight-based purchases.
var PurchaseHeader = []string{"Date", "Item Name", "Quantity", "Unit", "Unit Price (INR)", "Price per kg (INR)", "Total Price (INR)"}

func PurchaseRows(entries []ledger.Entry) []Row {
	var rows []Row
	for _, e := range entries {
		p, ok := e.(ledger.PurchaseEvent)
		if !ok {
			continue
		}
		perKg := "--"
		if v, ok := p.PricePerKg(); ok {
			perKg = money(v)
		}
		rows = append(rows, Row{
			"Date":               p.Date.String(),
			"Item Name":          p.ItemName,
			"Quantity":           money(p.Quantity),
			"Unit":               string(p.Unit),
			"Unit Price (INR)":   money(p.UnitPrice),
			"Price per kg (INR)": perKg,
			"Total Price (INR)":  money(p.TotalPrice),
			filterKey:            p.Date.String(),
		})
	}
	return rows
}

// MealHeader and MealRows render the meal history. Ingredients collapse
// into one "name (qty)" list column.
var MealHeader = []string{"Date", "Meal Type", "Student Count", "Items Used", "Total Cost (INR)", "Cost Per Student (INR)"}

func MealRows(entries []ledger.Entry) []Row {
	var rows []Row
	for _, e := range entries {
		m, ok := e.(ledger.MealEvent)
		if !ok {
			continue
		}
		used := make([]string, len(m.ItemsUsed))
		for i, item := range m.ItemsUsed {
			used[i] = item.Name + " (" + money(item.Quantity) + ")"
		}
		rows = append(rows, Row{
			"Date":                   m.Date.String(),
			"Meal Type":              m.MealType,
			"Student Count":          strconv.Itoa(m.StudentCount),
			"Items Used":             strings.Join(used, ", "),
			"Total Cost (INR)":       money(m.TotalCost),
			"Cost Per Student (INR)": money(m.CostPerStudent),
			filterKey:                m.Date.String(),
		})
	}
	return rows
}

// StockHeader and StockRows render the current stock view. Stock is
// cumulative, so these rows carry no filter date.
var StockHeader = []string{"Item Name", "Quantity in Stock", "Average Unit Cost (INR)", "Total Value (INR)"}

func StockRows(stock []inventory.StockEntry) []Row {
	rows := make([]Row, len(stock))
	for i, s := range stock {
		rows[i] = Row{
			"Item Name":               s.Name,
			"Quantity in Stock":       money(s.Quantity),
			"Average Unit Cost (INR)": money(s.AverageCost),
			"Total Value (INR)":       money(s.TotalValue),
		}
	}
	return rows
}
