/*
Package inventory derives current stock from the ledger.

PURPOSE:
  Turns the full event log into per-item stock entries: quantity on hand,
  weighted-average unit cost, and total value. Nothing here is persisted;
  every call replays the ledger from the beginning, so the view can never
  drift from the log. Recomputation is O(ledger size) and always correct -
  any caching belongs to callers, keyed externally.

COSTING MODEL:
  Average cost is the LIFETIME weighted average of purchases:

    averageCost(item) = sum(totalPrice of purchases) / sum(quantity of purchases)

  over every purchase of that item with quantity > 0, regardless of how
  much has since been consumed. This is an explicit modeling choice:
  consumption changes quantity, never average cost, and valuation uses the
  current all-time average rather than a cost frozen at purchase time.
  (A FIFO remaining-lot model would value differently; this engine does
  not do lot tracking.)

NUMERIC POLICY:
  All arithmetic is double-precision float. Presentation rounds to two
  decimals; these functions never round.
*/
package inventory

import (
	"sort"

	"github.com/midday/kitchen-engine/ledger"
)

// StockEntry is the derived view of one item: on-hand quantity, lifetime
// weighted-average unit cost, and value at that average cost.
type StockEntry struct {
	Name        string
	Quantity    float64
	AverageCost float64
	TotalValue  float64
}

// AverageCosts computes the lifetime weighted-average unit cost per item
// from purchase events alone. Items never purchased are absent.
func AverageCosts(entries []ledger.Entry) map[string]float64 {
	sumPrice := make(map[string]float64)
	sumQty := make(map[string]float64)

	for _, e := range entries {
		p, ok := e.(ledger.PurchaseEvent)
		if !ok || p.Quantity <= 0 {
			continue
		}
		sumPrice[p.ItemName] += p.TotalPrice
		sumQty[p.ItemName] += p.Quantity
	}

	costs := make(map[string]float64, len(sumQty))
	for name, qty := range sumQty {
		if qty > 0 {
			costs[name] = sumPrice[name] / qty
		} else {
			costs[name] = 0
		}
	}
	return costs
}

// Replay computes raw on-hand balances by replaying the ledger in order:
// purchases add, meal consumption subtracts. Only items seen in purchases
// get a balance; consumption of an unknown item is ignored, which matches
// the write-time guarantee that meals never touch unpurchased items.
//
// Balances are NOT floored at zero. A purchase deleted after its quantity
// was consumed shows up here as a negative balance.
func Replay(entries []ledger.Entry) map[string]float64 {
	onHand := make(map[string]float64)

	for _, e := range entries {
		switch ev := e.(type) {
		case ledger.PurchaseEvent:
			if ev.Quantity <= 0 {
				continue
			}
			onHand[ev.ItemName] += ev.Quantity
		case ledger.MealEvent:
			for _, used := range ev.ItemsUsed {
				if _, seen := onHand[used.Name]; seen {
					onHand[used.Name] -= used.Quantity
				}
			}
		}
	}
	return onHand
}

// Compute derives the stock view from the ledger. Items with zero or
// negative on-hand quantity are dropped from the view (not an error), and
// the result is sorted by name for a deterministic listing.
func Compute(entries []ledger.Entry) []StockEntry {
	costs := AverageCosts(entries)
	onHand := Replay(entries)

	stock := make([]StockEntry, 0, len(onHand))
	for name, qty := range onHand {
		if qty <= 0 {
			continue
		}
		avg := costs[name]
		stock = append(stock, StockEntry{
			Name:        name,
			Quantity:    qty,
			AverageCost: avg,
			TotalValue:  qty * avg,
		})
	}

	sort.Slice(stock, func(i, j int) bool { return stock[i].Name < stock[j].Name })
	return stock
}
