/*
Package meal is the validated write path of the kitchen engine.

PURPOSE:
  Turns a proposed meal (type, date, headcount, ingredients) into a costed
  MealEvent, or rejects it. This is the only place business rules are
  enforced: every other mutation (recording a purchase, deleting an event)
  is unconditional.

VALIDATION ORDER:
  1. Structural: mealType, date, studentCount, then the item list after
     dropping rows with an empty name or non-positive quantity. The first
     violated field is reported via InvalidInputError.
  2. Stock sufficiency: the ledger is replayed in order (no zero floor)
     and each requested item is checked against its running balance,
     fail-fast in input order via InsufficientStockError.
  3. Costing: requested quantity times the item's lifetime weighted-average
     purchase cost, summed. Items with no purchase history cost zero and
     are reported in Result.Unpriced rather than failing - the sufficiency
     check already rejects them whenever stock accounting is intact, so
     the zero-cost branch only matters for ledgers not built through this
     path.

No ledger mutation happens here. Propose returns the event; the caller
appends it, so a storage failure leaves nothing half-written.
*/
package meal

import (
	"github.com/midday/kitchen-engine/inventory"
	"github.com/midday/kitchen-engine/ledger"
)

// Proposal is a meal as submitted by the caller, before validation.
type Proposal struct {
	MealType     string
	Date         ledger.Date
	StudentCount int
	Items        []ledger.UsedItem
}

// Result carries the validated event plus any warning conditions.
type Result struct {
	Event ledger.MealEvent

	// Unpriced lists ingredients that had no purchase history and were
	// costed at zero. Reaching a meal with unpriced items requires a
	// ledger not built through Propose; callers surface this as a warning.
	Unpriced []string
}

// Propose validates and costs a meal against the current ledger snapshot.
// On success the returned event has a fresh id and is ready to append.
func Propose(entries []ledger.Entry, p Proposal) (Result, error) {
	if p.MealType == "" {
		return Result{}, &ledger.InvalidInputError{Field: "mealType", Reason: "must not be empty"}
	}
	if p.Date.IsZero() {
		return Result{}, &ledger.InvalidInputError{Field: "date", Reason: "must be set"}
	}
	if p.StudentCount <= 0 {
		return Result{}, &ledger.InvalidInputError{Field: "studentCount", Reason: "must be a positive integer"}
	}

	items := make([]ledger.UsedItem, 0, len(p.Items))
	for _, item := range p.Items {
		if item.Name == "" || item.Quantity <= 0 {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return Result{}, &ledger.InvalidInputError{Field: "items", Reason: "needs at least one item with a name and a positive quantity"}
	}

	onHand := inventory.Replay(entries)
	for _, item := range items {
		if onHand[item.Name] < item.Quantity {
			return Result{}, &ledger.InsufficientStockError{
				ItemName:  item.Name,
				Available: onHand[item.Name],
			}
		}
	}

	costs := inventory.AverageCosts(entries)
	var totalCost float64
	var unpriced []string
	for _, item := range items {
		avg, known := costs[item.Name]
		if !known {
			unpriced = append(unpriced, item.Name)
			continue
		}
		totalCost += item.Quantity * avg
	}

	event := ledger.MealEvent{
		ID:             ledger.NewID(),
		MealType:       p.MealType,
		Date:           p.Date,
		StudentCount:   p.StudentCount,
		ItemsUsed:      items,
		TotalCost:      totalCost,
		CostPerStudent: totalCost / float64(p.StudentCount),
	}
	return Result{Event: event, Unpriced: unpriced}, nil
}
