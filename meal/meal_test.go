package meal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midday/kitchen-engine/inventory"
	"github.com/midday/kitchen-engine/ledger"
	"github.com/midday/kitchen-engine/meal"
)

func purchase(t *testing.T, name string, qty, unitPrice float64) ledger.Entry {
	t.Helper()
	p, err := ledger.NewPurchase(name, qty, ledger.UnitKg, unitPrice, ledger.NewDate(2024, time.January, 1))
	require.NoError(t, err)
	p.ID = ledger.NewID()
	return p
}

func tomatoLedger(t *testing.T) []ledger.Entry {
	t.Helper()
	return []ledger.Entry{
		purchase(t, "Tomatoes", 10, 20),
		purchase(t, "Tomatoes", 5, 30),
	}
}

func proposal(items ...ledger.UsedItem) meal.Proposal {
	return meal.Proposal{
		MealType:     "Lunch",
		Date:         ledger.NewDate(2024, time.January, 15),
		StudentCount: 50,
		Items:        items,
	}
}

// =============================================================================
// STRUCTURAL VALIDATION
// =============================================================================

func TestPropose_StructuralValidation(t *testing.T) {
	entries := tomatoLedger(t)

	cases := []struct {
		name      string
		mutate    func(*meal.Proposal)
		wantField string
	}{
		{"empty meal type", func(p *meal.Proposal) { p.MealType = "" }, "mealType"},
		{"missing date", func(p *meal.Proposal) { p.Date = ledger.Date{} }, "date"},
		{"zero students", func(p *meal.Proposal) { p.StudentCount = 0 }, "studentCount"},
		{"negative students", func(p *meal.Proposal) { p.StudentCount = -5 }, "studentCount"},
		{"no items", func(p *meal.Proposal) { p.Items = nil }, "items"},
		{"only invalid items", func(p *meal.Proposal) {
			p.Items = []ledger.UsedItem{{Name: "", Quantity: 2}, {Name: "Tomatoes", Quantity: 0}}
		}, "items"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := proposal(ledger.UsedItem{Name: "Tomatoes", Quantity: 1})
			tc.mutate(&p)

			_, err := meal.Propose(entries, p)
			require.Error(t, err)
			assert.ErrorIs(t, err, ledger.ErrInvalidInput)

			var invalid *ledger.InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.wantField, invalid.Field)
		})
	}
}

func TestPropose_FiltersInvalidItemRows(t *testing.T) {
	// GIVEN: a mix of valid and junk item rows
	// THEN: junk rows are dropped, the valid row survives

	entries := tomatoLedger(t)
	p := proposal(
		ledger.UsedItem{Name: "", Quantity: 3},
		ledger.UsedItem{Name: "Tomatoes", Quantity: -1},
		ledger.UsedItem{Name: "Tomatoes", Quantity: 2},
	)

	result, err := meal.Propose(entries, p)
	require.NoError(t, err)
	require.Len(t, result.Event.ItemsUsed, 1)
	assert.Equal(t, "Tomatoes", result.Event.ItemsUsed[0].Name)
	assert.Equal(t, 2.0, result.Event.ItemsUsed[0].Quantity)
}

// =============================================================================
// STOCK SUFFICIENCY
// =============================================================================

func TestPropose_SucceedsWithinStock(t *testing.T) {
	// GIVEN: 15 kg of tomatoes at lifetime average 23.33
	// WHEN: a meal for 50 students uses 12 kg
	// THEN: totalCost = 12 * 23.33 = 280, costPerStudent = totalCost / 50

	entries := tomatoLedger(t)
	result, err := meal.Propose(entries, proposal(ledger.UsedItem{Name: "Tomatoes", Quantity: 12}))
	require.NoError(t, err)

	event := result.Event
	assert.NotEmpty(t, event.ID)
	assert.InDelta(t, 280.0, event.TotalCost, 1e-9)
	assert.InDelta(t, event.TotalCost/50, event.CostPerStudent, 1e-12)
	assert.Empty(t, result.Unpriced)

	// Stock afterwards: quantity 3, average cost unchanged.
	after := append(entries, event)
	stock := inventory.Compute(after)
	require.Len(t, stock, 1)
	assert.InDelta(t, 3.0, stock[0].Quantity, 1e-9)
	assert.InDelta(t, 23.3333, stock[0].AverageCost, 0.0001)
	assert.InDelta(t, 70.0, stock[0].TotalValue, 1e-9)
}

func TestPropose_RejectsOverConsumption(t *testing.T) {
	// GIVEN: 3 kg of tomatoes left after a 12 kg meal
	// WHEN: a second meal asks for 5 kg
	// THEN: InsufficientStockError names the item and the 3 kg available

	entries := tomatoLedger(t)
	first, err := meal.Propose(entries, proposal(ledger.UsedItem{Name: "Tomatoes", Quantity: 12}))
	require.NoError(t, err)
	entries = append(entries, first.Event)

	_, err = meal.Propose(entries, proposal(ledger.UsedItem{Name: "Tomatoes", Quantity: 5}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	var insufficient *ledger.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Tomatoes", insufficient.ItemName)
	assert.InDelta(t, 3.0, insufficient.Available, 1e-9)
}

func TestPropose_FailFastInInputOrder(t *testing.T) {
	// GIVEN: two items both short on stock
	// THEN: the error reports the first failing item in input order

	entries := []ledger.Entry{
		purchase(t, "Rice", 2, 40),
		purchase(t, "Dal", 1, 80),
	}

	_, err := meal.Propose(entries, proposal(
		ledger.UsedItem{Name: "Dal", Quantity: 5},
		ledger.UsedItem{Name: "Rice", Quantity: 5},
	))
	require.Error(t, err)

	var insufficient *ledger.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Dal", insufficient.ItemName)
	assert.Equal(t, 1.0, insufficient.Available)
}

func TestPropose_UnknownItemReportsZeroAvailable(t *testing.T) {
	// An item with no purchase history defaults to 0 available, so the
	// sufficiency check rejects it before costing ever sees it.

	entries := tomatoLedger(t)
	_, err := meal.Propose(entries, proposal(ledger.UsedItem{Name: "Paneer", Quantity: 1}))
	require.Error(t, err)

	var insufficient *ledger.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Paneer", insufficient.ItemName)
	assert.Equal(t, 0.0, insufficient.Available)
}

func TestPropose_NoMutationOnFailure(t *testing.T) {
	// A rejected proposal returns before any event is created; replaying
	// the same ledger gives the same answer (referential transparency).

	entries := tomatoLedger(t)
	_, err1 := meal.Propose(entries, proposal(ledger.UsedItem{Name: "Tomatoes", Quantity: 100}))
	_, err2 := meal.Propose(entries, proposal(ledger.UsedItem{Name: "Tomatoes", Quantity: 100}))
	assert.Error(t, err1)
	assert.Equal(t, err1, err2)
}

// =============================================================================
// COSTING EDGE CASES
// =============================================================================

func TestPropose_DonatedStockDilutesAverageCost(t *testing.T) {
	// GIVEN: 10 kg bought at 40 plus 5 kg donated (recorded at zero price)
	// THEN: the lifetime average dilutes to 400/15; the donated lot is
	// priced (at zero), not reported as unpriced

	entries := []ledger.Entry{
		purchase(t, "Rice", 10, 40),
		ledger.PurchaseEvent{ID: ledger.NewID(), ItemName: "Rice", Quantity: 5, Date: ledger.NewDate(2024, time.January, 2)},
	}

	result, err := meal.Propose(entries, proposal(ledger.UsedItem{Name: "Rice", Quantity: 3}))
	require.NoError(t, err)
	assert.Empty(t, result.Unpriced)
	assert.InDelta(t, 3*400.0/15.0, result.Event.TotalCost, 1e-9)
}

func TestPropose_MultiItemCosting(t *testing.T) {
	entries := []ledger.Entry{
		purchase(t, "Rice", 10, 40),
		purchase(t, "Dal", 5, 80),
	}

	result, err := meal.Propose(entries, proposal(
		ledger.UsedItem{Name: "Rice", Quantity: 4},
		ledger.UsedItem{Name: "Dal", Quantity: 1},
	))
	require.NoError(t, err)
	assert.InDelta(t, 4*40.0+1*80.0, result.Event.TotalCost, 1e-9)
	assert.InDelta(t, 240.0/50.0, result.Event.CostPerStudent, 1e-9)
}
