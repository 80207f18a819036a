/*
store.go - Persistence interface for ledger entries

PURPOSE:
  Defines the boundary between the ledger and its storage backend. The
  core never performs I/O itself; it replays whatever sequence the
  Provider returns. Different implementations can use SQLite, a remote
  record store, or in-memory storage.

CONTRACT:
  - Load returns every entry in insertion order. Because ids are
    time-ordered, insertion order and id order coincide.
  - Save persists one entry. Entries are immutable once saved.
  - Delete removes by id and returns ErrNotFound for an absent id;
    the ledger above turns that into a no-op.

Storage failures (network, serialization) propagate to the caller
unchanged. The core does not retry or suppress them, and callers should
not apply optimistic updates before Save confirms.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store over the purchases and
    meal_logs collections
  - ledger/store: in-memory store for tests and development
*/
package ledger

import "context"

// Provider handles persistence of ledger entries.
type Provider interface {
	// Load returns all entries in insertion order.
	Load(ctx context.Context) ([]Entry, error)

	// Save persists a single entry. The entry's id is already assigned.
	Save(ctx context.Context, entry Entry) error

	// Delete removes the entry with the given id, regardless of kind.
	// Returns ErrNotFound when no entry has that id.
	Delete(ctx context.Context, id ID) error
}

// ItemRecord is the mutable inventory-item metadata of the record-store
// backend: display name, preferred unit, free-form note. Unlike ledger
// entries it supports update-in-place.
type ItemRecord struct {
	ID   ID
	Name string
	Unit Unit
	Note string
}

// ItemStore manages inventory-item metadata. Listing is ordered by name.
type ItemStore interface {
	ListItems(ctx context.Context) ([]ItemRecord, error)
	SaveItem(ctx context.Context, item ItemRecord) error
	UpdateItem(ctx context.Context, item ItemRecord) error
	DeleteItem(ctx context.Context, id ID) error
}
