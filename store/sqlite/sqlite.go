/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements ledger.Provider and ledger.ItemStore over the three kitchen
  collections:

    purchases:   grocery purchase events
    meal_logs:   meal preparation events (ingredients as JSON)
    inventory:   mutable item metadata (name, unit, note)

  The two event tables together form the ledger. Load merges them in id
  order; ids are UUIDv7 strings, so lexicographic id order is creation
  order and the merge reproduces insertion order exactly.

LEDGER CONTRACT:
  Events are insert-and-delete only - there are no UPDATE statements on
  purchases or meal_logs. Delete by id is tried against both event tables
  and returns ledger.ErrNotFound when neither holds the id; the ledger
  above treats that as a no-op. The inventory table is the one mutable
  collection and supports update-in-place.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, and SQLite is opened in WAL mode
  so readers don't block behind the single writer.

USAGE:
  store, err := sqlite.New("./kitchen.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  led := ledger.New(store)

SEE ALSO:
  - ledger/store.go: interface definitions
  - ledger/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/midday/kitchen-engine/ledger"
)

// Store implements ledger.Provider and ledger.ItemStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Purchase events (insert/delete only)
	CREATE TABLE IF NOT EXISTS purchases (
		id TEXT PRIMARY KEY,
		item_name TEXT NOT NULL,
		quantity REAL NOT NULL,
		unit TEXT NOT NULL,
		unit_price REAL NOT NULL,
		total_price REAL NOT NULL,
		purchase_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_purchases_date
		ON purchases(purchase_date);
	CREATE INDEX IF NOT EXISTS idx_purchases_item
		ON purchases(item_name);

	-- Meal events (insert/delete only, ingredients as JSON)
	CREATE TABLE IF NOT EXISTS meal_logs (
		id TEXT PRIMARY KEY,
		meal_type TEXT NOT NULL,
		meal_date TEXT NOT NULL,
		student_count INTEGER NOT NULL,
		items_json TEXT NOT NULL,
		total_cost REAL NOT NULL,
		cost_per_student REAL NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_meal_logs_date
		ON meal_logs(meal_date);

	-- Inventory item metadata (the one mutable collection)
	CREATE TABLE IF NOT EXISTS inventory (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		unit TEXT,
		note TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_inventory_name
		ON inventory(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LEDGER PROVIDER (ledger.Provider interface)
// =============================================================================

// Save persists a single event into its collection.
func (s *Store) Save(ctx context.Context, entry ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)

	switch e := entry.(type) {
	case ledger.PurchaseEvent:
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO purchases
			(id, item_name, quantity, unit, unit_price, total_price, purchase_date, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.ItemName, e.Quantity, string(e.Unit), e.UnitPrice, e.TotalPrice, e.Date.String(), now,
		)
		if err != nil {
			return fmt.Errorf("failed to save purchase: %w", err)
		}
		return nil

	case ledger.MealEvent:
		itemsJSON, err := json.Marshal(usedItemRecords(e.ItemsUsed))
		if err != nil {
			return fmt.Errorf("failed to encode meal items: %w", err)
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO meal_logs
			(id, meal_type, meal_date, student_count, items_json, total_cost, cost_per_student, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.MealType, e.Date.String(), e.StudentCount, string(itemsJSON), e.TotalCost, e.CostPerStudent, now,
		)
		if err != nil {
			return fmt.Errorf("failed to save meal log: %w", err)
		}
		return nil
	}

	return fmt.Errorf("unknown entry type %T", entry)
}

// Load returns the full ledger, both collections merged in id order.
func (s *Store) Load(ctx context.Context) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	purchases, err := s.loadPurchases(ctx)
	if err != nil {
		return nil, err
	}
	meals, err := s.loadMeals(ctx)
	if err != nil {
		return nil, err
	}

	// Both slices are already id-ordered; merge keeps the combined log
	// in insertion order.
	entries := make([]ledger.Entry, 0, len(purchases)+len(meals))
	i, j := 0, 0
	for i < len(purchases) && j < len(meals) {
		if purchases[i].ID < meals[j].ID {
			entries = append(entries, purchases[i])
			i++
		} else {
			entries = append(entries, meals[j])
			j++
		}
	}
	for ; i < len(purchases); i++ {
		entries = append(entries, purchases[i])
	}
	for ; j < len(meals); j++ {
		entries = append(entries, meals[j])
	}
	return entries, nil
}

// Delete removes the event with the given id from whichever collection
// holds it. Returns ledger.ErrNotFound when neither does.
func (s *Store) Delete(ctx context.Context, id ledger.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"purchases", "meal_logs"} {
		res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) loadPurchases(ctx context.Context) ([]ledger.PurchaseEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_name, quantity, unit, unit_price, total_price, purchase_date
		FROM purchases
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []ledger.PurchaseEvent
	for rows.Next() {
		var (
			p        ledger.PurchaseEvent
			unit     string
			dateText string
		)
		if err := rows.Scan(&p.ID, &p.ItemName, &p.Quantity, &unit, &p.UnitPrice, &p.TotalPrice, &dateText); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		p.Unit = ledger.Unit(unit)
		if p.Date, err = ledger.ParseDate(dateText); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func (s *Store) loadMeals(ctx context.Context) ([]ledger.MealEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meal_type, meal_date, student_count, items_json, total_cost, cost_per_student
		FROM meal_logs
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal logs: %w", err)
	}
	defer rows.Close()

	var meals []ledger.MealEvent
	for rows.Next() {
		var (
			m         ledger.MealEvent
			dateText  string
			itemsJSON string
		)
		if err := rows.Scan(&m.ID, &m.MealType, &dateText, &m.StudentCount, &itemsJSON, &m.TotalCost, &m.CostPerStudent); err != nil {
			return nil, fmt.Errorf("failed to scan meal log: %w", err)
		}
		if m.Date, err = ledger.ParseDate(dateText); err != nil {
			return nil, err
		}
		var records []usedItemRecord
		if err := json.Unmarshal([]byte(itemsJSON), &records); err != nil {
			return nil, fmt.Errorf("failed to decode meal items: %w", err)
		}
		m.ItemsUsed = make([]ledger.UsedItem, len(records))
		for i, r := range records {
			m.ItemsUsed[i] = ledger.UsedItem{Name: r.Name, Quantity: r.Quantity}
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// usedItemRecord pins the JSON field names stored in items_json.
type usedItemRecord struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

func usedItemRecords(items []ledger.UsedItem) []usedItemRecord {
	records := make([]usedItemRecord, len(items))
	for i, item := range items {
		records[i] = usedItemRecord{Name: item.Name, Quantity: item.Quantity}
	}
	return records
}

// =============================================================================
// INVENTORY ITEMS (ledger.ItemStore interface)
// =============================================================================

// ListItems returns inventory item metadata ordered by name.
func (s *Store) ListItems(ctx context.Context) ([]ledger.ItemRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, unit, note
		FROM inventory
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var items []ledger.ItemRecord
	for rows.Next() {
		var (
			item ledger.ItemRecord
			unit sql.NullString
			note sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Name, &unit, &note); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		item.Unit = ledger.Unit(unit.String)
		item.Note = note.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveItem inserts a new inventory item.
func (s *Store) SaveItem(ctx context.Context, item ledger.ItemRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (id, name, unit, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, string(item.Unit), item.Note, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save inventory item: %w", err)
	}
	return nil
}

// UpdateItem updates an existing item in place.
func (s *Store) UpdateItem(ctx context.Context, item ledger.ItemRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory SET name = ?, unit = ?, note = ?, updated_at = ?
		WHERE id = ?`,
		item.Name, string(item.Unit), item.Note, time.Now().UTC().Format(time.RFC3339), item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// DeleteItem removes item metadata by id.
func (s *Store) DeleteItem(ctx context.Context, id ledger.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM inventory WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
