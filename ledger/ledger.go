/*
ledger.go - The ordered event log

PURPOSE:
  The Ledger is the single source of truth for the kitchen. Stock levels
  and costs are always computed by replaying its entries - there is no
  separate inventory table that can drift out of sync.

INVARIANTS:
  1. ORDERED: All() returns entries in insertion order, and every
     projection replays them in exactly that order.
  2. IMMUTABLE: entries are never edited. The only mutations are append
     and removal by id.
  3. UNVALIDATED: the ledger checks structural shape only. Business rules
     (stock sufficiency, costing) live in the meal package, which is the
     only validated write path.
  4. IDEMPOTENT DELETE: removing an absent id is a no-op, not an error.

KNOWN LIMITATION:
  Removing a purchase whose quantity was already consumed by later meals
  can drive the replayed balance of that item negative retroactively.
  Delete is unconditional and performs no referential check; the stock
  view drops non-positive balances and inventory.Replay exposes the raw
  balance.
*/
package ledger

import (
	"context"
	"errors"
	"fmt"
)

// Ledger is the append/remove-only ordered event log.
type Ledger interface {
	// Append persists the entry, assigning a fresh id when it has none,
	// and returns the entry as stored.
	Append(ctx context.Context, entry Entry) (Entry, error)

	// Remove deletes the entry with the given id. Absent ids are a no-op.
	Remove(ctx context.Context, id ID) error

	// All returns every entry in insertion order.
	All(ctx context.Context) ([]Entry, error)
}

// DefaultLedger implements Ledger over an injected Provider.
type DefaultLedger struct {
	Provider Provider
}

func New(provider Provider) *DefaultLedger {
	return &DefaultLedger{Provider: provider}
}

func (l *DefaultLedger) Append(ctx context.Context, entry Entry) (Entry, error) {
	switch e := entry.(type) {
	case PurchaseEvent:
		if e.ID == "" {
			e.ID = NewID()
		}
		entry = e
	case MealEvent:
		if e.ID == "" {
			e.ID = NewID()
		}
		entry = e
	default:
		return nil, fmt.Errorf("unknown entry type %T", entry)
	}

	if err := l.Provider.Save(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (l *DefaultLedger) Remove(ctx context.Context, id ID) error {
	err := l.Provider.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (l *DefaultLedger) All(ctx context.Context) ([]Entry, error) {
	return l.Provider.Load(ctx)
}
