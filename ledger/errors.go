/*
errors.go - Centralized error types for the kitchen engine

PURPOSE:
  All core error types in one place. Callers match with errors.Is/errors.As;
  the API layer maps them to HTTP statuses.

ERROR CATEGORIES:
  1. Validation errors - structural failures on proposed events
  2. Stock errors - business-rule failures on meal proposals
  3. Not-found - delete referencing an absent id (treated as a no-op by
     the ledger, surfaced only by providers)

Nothing here is fatal: every failure is recoverable at the call site, and
no partial state is written when one is returned. Storage failures from a
Provider propagate unchanged; the core neither retries nor wraps them.
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when a proposed event fails structural
	// validation (missing field, non-positive quantity or count).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientStock is returned when a meal proposal requests more
	// of an ingredient than the replayed ledger has on hand.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotFound is returned by providers when a delete or update
	// references an absent id. The ledger treats delete-not-found as a
	// no-op, so callers of Ledger.Remove never see it.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError names the first violated field of a structural
// validation failure.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: field %q %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError reports the first ingredient, in input order,
// whose on-hand quantity cannot cover the requested amount.
type InsufficientStockError struct {
	ItemName  string
	Available float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: %.2f available", e.ItemName, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// IsClientError returns true if the error is due to invalid caller input
// rather than a storage failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrNotFound)
}
