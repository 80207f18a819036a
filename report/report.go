/*
Package report aggregates the ledger into monthly and per-ingredient views.

PURPOSE:
  Two independent pure projections over the full event log:
  - monthly purchase and meal cost totals, bucketed by YYYY-MM
  - cumulative ingredient usage across all meals

  Both are single-pass, O(ledger size), hold no state, and return
  deterministically ordered slices - calling them twice on an unchanged
  ledger yields identical output.
*/
package report

import (
	"sort"

	"github.com/midday/kitchen-engine/ledger"
)

// MonthlyCost is one YYYY-MM bucket of purchase and meal spend.
type MonthlyCost struct {
	Month    string
	Purchase float64
	Meal     float64
}

// IngredientUsage is the cumulative quantity of one ingredient consumed
// across all meals.
type IngredientUsage struct {
	Name     string
	Quantity float64
}

// MonthlyCosts buckets the ledger by month. Purchases accumulate into
// Purchase, meals into Meal. The result is sorted by month descending
// (most recent first) for tabular display; chart consumers re-reverse
// with Ascending. Entries without a date are skipped.
func MonthlyCosts(entries []ledger.Entry) []MonthlyCost {
	buckets := make(map[string]*MonthlyCost)

	for _, e := range entries {
		date := e.EntryDate()
		if date.IsZero() {
			continue
		}
		month := date.Month()
		bucket, ok := buckets[month]
		if !ok {
			bucket = &MonthlyCost{Month: month}
			buckets[month] = bucket
		}
		switch ev := e.(type) {
		case ledger.PurchaseEvent:
			bucket.Purchase += ev.TotalPrice
		case ledger.MealEvent:
			bucket.Meal += ev.TotalCost
		}
	}

	costs := make([]MonthlyCost, 0, len(buckets))
	for _, bucket := range buckets {
		costs = append(costs, *bucket)
	}
	sort.Slice(costs, func(i, j int) bool { return costs[i].Month > costs[j].Month })
	return costs
}

// Ascending returns a copy of costs in oldest-first order for charting.
func Ascending(costs []MonthlyCost) []MonthlyCost {
	out := make([]MonthlyCost, len(costs))
	for i, c := range costs {
		out[len(costs)-1-i] = c
	}
	return out
}

// UsageTotals sums the consumed quantity per ingredient across all meal
// events, sorted by quantity descending (ties broken by name so the order
// is stable).
func UsageTotals(entries []ledger.Entry) []IngredientUsage {
	totals := make(map[string]float64)

	for _, e := range entries {
		m, ok := e.(ledger.MealEvent)
		if !ok {
			continue
		}
		for _, used := range m.ItemsUsed {
			if used.Name == "" {
				continue
			}
			totals[used.Name] += used.Quantity
		}
	}

	usage := make([]IngredientUsage, 0, len(totals))
	for name, qty := range totals {
		usage = append(usage, IngredientUsage{Name: name, Quantity: qty})
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Quantity != usage[j].Quantity {
			return usage[i].Quantity > usage[j].Quantity
		}
		return usage[i].Name < usage[j].Name
	})
	return usage
}
