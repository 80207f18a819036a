package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midday/kitchen-engine/inventory"
	"github.com/midday/kitchen-engine/ledger"
)

func purchase(t *testing.T, name string, qty, unitPrice float64) ledger.Entry {
	t.Helper()
	p, err := ledger.NewPurchase(name, qty, ledger.UnitKg, unitPrice, ledger.NewDate(2024, time.January, 1))
	require.NoError(t, err)
	p.ID = ledger.NewID()
	return p
}

func mealUsing(name string, qty float64) ledger.Entry {
	return ledger.MealEvent{
		ID:           ledger.NewID(),
		MealType:     "Lunch",
		Date:         ledger.NewDate(2024, time.January, 2),
		StudentCount: 50,
		ItemsUsed:    []ledger.UsedItem{{Name: name, Quantity: qty}},
	}
}

func findEntry(t *testing.T, stock []inventory.StockEntry, name string) inventory.StockEntry {
	t.Helper()
	for _, s := range stock {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("item %q not in stock view", name)
	return inventory.StockEntry{}
}

// =============================================================================
// VALUATION
// =============================================================================

func TestCompute_SinglePurchase(t *testing.T) {
	// GIVEN: one purchase of 10 kg tomatoes at 20/kg
	// THEN: stock shows 10 on hand at average cost 20, value 200

	entries := []ledger.Entry{purchase(t, "Tomatoes", 10, 20)}

	stock := inventory.Compute(entries)
	require.Len(t, stock, 1)
	got := findEntry(t, stock, "Tomatoes")
	assert.Equal(t, 10.0, got.Quantity)
	assert.Equal(t, 20.0, got.AverageCost)
	assert.Equal(t, 200.0, got.TotalValue)
}

func TestCompute_WeightedAverageAcrossLots(t *testing.T) {
	// GIVEN: 10 kg at 20 and 5 kg at 30
	// THEN: average cost is (10*20 + 5*30) / 15 = 23.33

	entries := []ledger.Entry{
		purchase(t, "Tomatoes", 10, 20),
		purchase(t, "Tomatoes", 5, 30),
	}

	got := findEntry(t, inventory.Compute(entries), "Tomatoes")
	assert.Equal(t, 15.0, got.Quantity)
	assert.InDelta(t, 23.3333, got.AverageCost, 0.0001)
	assert.InDelta(t, 350.0, got.TotalValue, 1e-9)
}

func TestCompute_ConsumptionNeverChangesAverageCost(t *testing.T) {
	// GIVEN: the two-lot ledger above
	// WHEN: a meal consumes 12 kg
	// THEN: only quantity drops; average cost is the lifetime average

	entries := []ledger.Entry{
		purchase(t, "Tomatoes", 10, 20),
		purchase(t, "Tomatoes", 5, 30),
	}
	before := findEntry(t, inventory.Compute(entries), "Tomatoes")

	entries = append(entries, mealUsing("Tomatoes", 12))
	after := findEntry(t, inventory.Compute(entries), "Tomatoes")

	assert.Equal(t, before.AverageCost, after.AverageCost)
	assert.InDelta(t, 3.0, after.Quantity, 1e-9)
	assert.InDelta(t, 3.0*before.AverageCost, after.TotalValue, 1e-9)
}

func TestCompute_DropsExhaustedItems(t *testing.T) {
	// GIVEN: 5 kg purchased and all 5 consumed
	// THEN: the item disappears from the view (no zero rows, no error)

	entries := []ledger.Entry{
		purchase(t, "Rice", 5, 40),
		mealUsing("Rice", 5),
	}

	assert.Empty(t, inventory.Compute(entries))
}

func TestCompute_SortedByName(t *testing.T) {
	entries := []ledger.Entry{
		purchase(t, "Salt", 1, 10),
		purchase(t, "Dal", 2, 80),
		purchase(t, "Rice", 10, 40),
	}

	stock := inventory.Compute(entries)
	require.Len(t, stock, 3)
	assert.Equal(t, "Dal", stock[0].Name)
	assert.Equal(t, "Rice", stock[1].Name)
	assert.Equal(t, "Salt", stock[2].Name)
}

func TestCompute_Deterministic(t *testing.T) {
	// Calling twice on an unchanged ledger yields identical output.

	entries := []ledger.Entry{
		purchase(t, "Rice", 10, 40),
		purchase(t, "Dal", 5, 80),
		mealUsing("Rice", 3),
	}

	assert.Equal(t, inventory.Compute(entries), inventory.Compute(entries))
}

// =============================================================================
// REPLAY
// =============================================================================

func TestReplay_IgnoresConsumptionOfUnknownItems(t *testing.T) {
	// A meal referencing an item never purchased leaves no balance behind.

	entries := []ledger.Entry{
		purchase(t, "Rice", 10, 40),
		mealUsing("Ghost", 3),
	}

	onHand := inventory.Replay(entries)
	assert.Equal(t, 10.0, onHand["Rice"])
	_, present := onHand["Ghost"]
	assert.False(t, present)
}

func TestReplay_ExposesNegativeBalanceAfterPurchaseDeletion(t *testing.T) {
	// GIVEN: a purchase consumed by a later meal
	// WHEN: the purchase is deleted from the log (unconditional delete)
	// THEN: replay exposes the negative balance; the stock view floors it away

	full := []ledger.Entry{
		purchase(t, "Rice", 10, 40),
		purchase(t, "Rice", 2, 50),
		mealUsing("Rice", 11),
	}
	// Drop the first purchase, as an unconditional delete would.
	truncated := full[1:]

	onHand := inventory.Replay(truncated)
	assert.InDelta(t, -9.0, onHand["Rice"], 1e-9)
	assert.Empty(t, inventory.Compute(truncated), "negative stock is dropped from the view")
}

func TestAverageCosts_SkipsNonPositiveQuantities(t *testing.T) {
	// Purchases with quantity <= 0 cannot exist via NewPurchase, but a
	// provider may hand back legacy rows; they must not poison the average.

	entries := []ledger.Entry{
		purchase(t, "Rice", 10, 40),
		ledger.PurchaseEvent{ID: ledger.NewID(), ItemName: "Rice", Quantity: 0, TotalPrice: 999, Date: ledger.NewDate(2024, time.January, 3)},
	}

	costs := inventory.AverageCosts(entries)
	assert.Equal(t, 40.0, costs["Rice"])
}
