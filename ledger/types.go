/*
Package ledger provides the event log at the heart of the kitchen engine.

PURPOSE:
  This package contains the record types and the ledger contract shared by
  every other component. The ledger is an ordered log of typed events - a
  grocery purchase or a prepared meal - and is the single source of truth.
  Stock levels, average costs, and reports are never stored; they are always
  recomputed by replaying this log.

KEY CONCEPTS IN THIS FILE (types.go):
  - Entry: the tagged union over the two event variants
  - PurchaseEvent: groceries bought (quantity, unit, prices, date)
  - MealEvent: a meal prepared (ingredients consumed, resulting costs)
  - ID: unique, time-ordered event identifier (UUIDv7)

DESIGN PRINCIPLES:
  1. Explicit discrimination: events are concrete types behind the Entry
     interface, switched on by type, not by inspecting a string field.
  2. Immutability: events are never edited after creation; the only
     mutation the ledger supports is removal by id.
  3. Derived fields are derived once: TotalPrice and CostPerStudent are
     computed at creation and persisted with the event.

SEE ALSO:
  - ledger.go: the ledger contract and provider-backed implementation
  - errors.go: validation and stock error types
  - inventory, meal, report: pure projections and the validated write path
*/
package ledger

import "github.com/google/uuid"

// =============================================================================
// IDENTIFIERS
// =============================================================================

// ID uniquely identifies a ledger entry. Ids are UUIDv7, so their string
// order is creation order; providers rely on this to return entries in
// insertion order.
type ID string

// NewID returns a fresh time-ordered id.
func NewID() ID {
	return ID(uuid.Must(uuid.NewV7()).String())
}

// =============================================================================
// UNITS
// =============================================================================

type Unit string

const (
	UnitKg   Unit = "kg"
	UnitG    Unit = "g"
	UnitL    Unit = "L"
	UnitMl   Unit = "ml"
	UnitPcs  Unit = "pcs"
	UnitUnit Unit = "unit"
	UnitPack Unit = "pack"
	UnitBox  Unit = "box"
)

// Units lists every purchase unit, in display order.
var Units = []Unit{UnitKg, UnitG, UnitL, UnitMl, UnitPcs, UnitUnit, UnitPack, UnitBox}

// ValidUnit reports whether u is a known purchase unit.
func ValidUnit(u Unit) bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// =============================================================================
// ENTRY - Tagged union over the two event variants
// =============================================================================

type Kind string

const (
	KindPurchase Kind = "purchase"
	KindMeal     Kind = "meal"
)

// Entry is a single ledger record. The two implementations are
// PurchaseEvent and MealEvent; consumers discriminate by type switch.
type Entry interface {
	EntryID() ID
	EntryKind() Kind
	EntryDate() Date
}

// =============================================================================
// PURCHASE EVENT
// =============================================================================

// PurchaseEvent records groceries bought. TotalPrice is derived from
// Quantity and UnitPrice at creation and is not independently editable.
type PurchaseEvent struct {
	ID         ID
	ItemName   string
	Quantity   float64
	Unit       Unit
	UnitPrice  float64
	TotalPrice float64
	Date       Date
}

func (p PurchaseEvent) EntryID() ID     { return p.ID }
func (p PurchaseEvent) EntryKind() Kind { return KindPurchase }
func (p PurchaseEvent) EntryDate() Date { return p.Date }

// PricePerKg derives a per-kilogram price for weight-based purchases.
// Only kg and g convert; every other unit returns ok=false.
func (p PurchaseEvent) PricePerKg() (float64, bool) {
	if p.Quantity <= 0 {
		return 0, false
	}
	switch p.Unit {
	case UnitKg:
		return p.UnitPrice, true
	case UnitG:
		return p.UnitPrice * 1000, true
	}
	return 0, false
}

// NewPurchase validates the structural shape of a purchase and builds the
// event, deriving TotalPrice. The returned event has no id yet; the ledger
// assigns one on append.
func NewPurchase(itemName string, quantity float64, unit Unit, unitPrice float64, date Date) (PurchaseEvent, error) {
	if itemName == "" {
		return PurchaseEvent{}, &InvalidInputError{Field: "itemName", Reason: "must not be empty"}
	}
	if quantity <= 0 {
		return PurchaseEvent{}, &InvalidInputError{Field: "quantity", Reason: "must be positive"}
	}
	if !ValidUnit(unit) {
		return PurchaseEvent{}, &InvalidInputError{Field: "unit", Reason: "unknown unit"}
	}
	if unitPrice < 0 {
		return PurchaseEvent{}, &InvalidInputError{Field: "unitPrice", Reason: "must not be negative"}
	}
	if date.IsZero() {
		return PurchaseEvent{}, &InvalidInputError{Field: "date", Reason: "must be set"}
	}
	return PurchaseEvent{
		ItemName:   itemName,
		Quantity:   quantity,
		Unit:       unit,
		UnitPrice:  unitPrice,
		TotalPrice: quantity * unitPrice,
		Date:       date,
	}, nil
}

// =============================================================================
// MEAL EVENT
// =============================================================================

// UsedItem is one ingredient consumed by a meal.
type UsedItem struct {
	Name     string
	Quantity float64
}

// MealEvent records a prepared meal: the ingredients consumed and the
// resulting total and per-student cost. Events are produced by meal.Propose,
// which enforces stock sufficiency before one is created.
type MealEvent struct {
	ID             ID
	MealType       string
	Date           Date
	StudentCount   int
	ItemsUsed      []UsedItem
	TotalCost      float64
	CostPerStudent float64
}

func (m MealEvent) EntryID() ID     { return m.ID }
func (m MealEvent) EntryKind() Kind { return KindMeal }
func (m MealEvent) EntryDate() Date { return m.Date }
