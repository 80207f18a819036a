package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midday/kitchen-engine/ledger"
	"github.com/midday/kitchen-engine/report"
)

func purchaseOn(t *testing.T, date ledger.Date, name string, qty, unitPrice float64) ledger.Entry {
	t.Helper()
	p, err := ledger.NewPurchase(name, qty, ledger.UnitKg, unitPrice, date)
	require.NoError(t, err)
	p.ID = ledger.NewID()
	return p
}

func mealOn(date ledger.Date, totalCost float64, items ...ledger.UsedItem) ledger.Entry {
	return ledger.MealEvent{
		ID:             ledger.NewID(),
		MealType:       "Lunch",
		Date:           date,
		StudentCount:   40,
		ItemsUsed:      items,
		TotalCost:      totalCost,
		CostPerStudent: totalCost / 40,
	}
}

// =============================================================================
// MONTHLY COSTS
// =============================================================================

func TestMonthlyCosts_BucketsAndSortsDescending(t *testing.T) {
	// GIVEN: a ledger spanning January and February 2024
	// THEN: two buckets, most recent month first

	jan := ledger.NewDate(2024, time.January, 10)
	feb := ledger.NewDate(2024, time.February, 5)
	entries := []ledger.Entry{
		purchaseOn(t, jan, "Rice", 10, 40),
		purchaseOn(t, feb, "Dal", 5, 80),
		mealOn(jan, 120, ledger.UsedItem{Name: "Rice", Quantity: 3}),
		mealOn(feb, 200, ledger.UsedItem{Name: "Dal", Quantity: 2}),
	}

	costs := report.MonthlyCosts(entries)
	require.Len(t, costs, 2)
	assert.Equal(t, "2024-02", costs[0].Month)
	assert.Equal(t, "2024-01", costs[1].Month)
	assert.Equal(t, 400.0, costs[0].Purchase)
	assert.Equal(t, 200.0, costs[0].Meal)
	assert.Equal(t, 400.0, costs[1].Purchase)
	assert.Equal(t, 120.0, costs[1].Meal)
}

func TestMonthlyCosts_AccumulatesWithinMonth(t *testing.T) {
	jan := ledger.NewDate(2024, time.January, 10)
	entries := []ledger.Entry{
		purchaseOn(t, jan, "Rice", 10, 40),
		purchaseOn(t, ledger.NewDate(2024, time.January, 20), "Dal", 5, 80),
	}

	costs := report.MonthlyCosts(entries)
	require.Len(t, costs, 1)
	assert.Equal(t, 800.0, costs[0].Purchase)
	assert.Equal(t, 0.0, costs[0].Meal)
}

func TestMonthlyCosts_SkipsUndatedEntries(t *testing.T) {
	entries := []ledger.Entry{
		ledger.PurchaseEvent{ID: ledger.NewID(), ItemName: "Rice", Quantity: 1, TotalPrice: 40},
	}
	assert.Empty(t, report.MonthlyCosts(entries))
}

func TestAscending_ReversesForCharts(t *testing.T) {
	costs := []report.MonthlyCost{
		{Month: "2024-03"},
		{Month: "2024-02"},
		{Month: "2024-01"},
	}

	asc := report.Ascending(costs)
	assert.Equal(t, "2024-01", asc[0].Month)
	assert.Equal(t, "2024-03", asc[2].Month)
	// The input is untouched.
	assert.Equal(t, "2024-03", costs[0].Month)
}

// =============================================================================
// INGREDIENT USAGE
// =============================================================================

func TestUsageTotals_SortsByQuantityDescending(t *testing.T) {
	jan := ledger.NewDate(2024, time.January, 10)
	entries := []ledger.Entry{
		purchaseOn(t, jan, "Rice", 100, 40),
		mealOn(jan, 0, ledger.UsedItem{Name: "Rice", Quantity: 5}, ledger.UsedItem{Name: "Dal", Quantity: 2}),
		mealOn(jan, 0, ledger.UsedItem{Name: "Dal", Quantity: 1}, ledger.UsedItem{Name: "Oil", Quantity: 9}),
	}

	usage := report.UsageTotals(entries)
	require.Len(t, usage, 3)
	assert.Equal(t, report.IngredientUsage{Name: "Oil", Quantity: 9}, usage[0])
	assert.Equal(t, report.IngredientUsage{Name: "Rice", Quantity: 5}, usage[1])
	assert.Equal(t, report.IngredientUsage{Name: "Dal", Quantity: 3}, usage[2])
}

func TestUsageTotals_TiesBreakByName(t *testing.T) {
	jan := ledger.NewDate(2024, time.January, 10)
	entries := []ledger.Entry{
		mealOn(jan, 0, ledger.UsedItem{Name: "Salt", Quantity: 2}, ledger.UsedItem{Name: "Oil", Quantity: 2}),
	}

	usage := report.UsageTotals(entries)
	require.Len(t, usage, 2)
	assert.Equal(t, "Oil", usage[0].Name)
	assert.Equal(t, "Salt", usage[1].Name)
}

func TestAggregations_Idempotent(t *testing.T) {
	// Calling either projection twice on an unchanged ledger yields
	// identical output, order included.

	jan := ledger.NewDate(2024, time.January, 10)
	feb := ledger.NewDate(2024, time.February, 5)
	entries := []ledger.Entry{
		purchaseOn(t, jan, "Rice", 10, 40),
		mealOn(feb, 200, ledger.UsedItem{Name: "Rice", Quantity: 2}),
	}

	assert.Equal(t, report.MonthlyCosts(entries), report.MonthlyCosts(entries))
	assert.Equal(t, report.UsageTotals(entries), report.UsageTotals(entries))
}
