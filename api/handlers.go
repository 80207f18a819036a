/*
handlers.go - HTTP API handlers for the kitchen engine

PURPOSE:
  Exposes the ledger, derived stock, and reports via REST. Handlers parse
  and validate the transport shape, delegate to the core (ledger, meal,
  inventory, report), and serialize responses.

ENDPOINTS:
  Purchases:
    GET    /api/purchases           List purchase history (newest first)
    POST   /api/purchases           Record a purchase
    DELETE /api/purchases/{id}      Delete a purchase (idempotent)

  Meals:
    GET    /api/meals               List meal history (newest first)
    POST   /api/meals               Validate, cost, and log a meal
    DELETE /api/meals/{id}          Delete a meal log (idempotent)

  Stock & reports:
    GET    /api/stock               Derived stock view
    GET    /api/reports/monthly     Monthly cost buckets (?order=asc|desc)
    GET    /api/reports/usage       Ingredient usage totals

  Exports (CSV; ?date=YYYY-MM-DD filters where noted):
    GET    /api/export/monthly.csv
    GET    /api/export/usage.csv
    GET    /api/export/stock.csv
    GET    /api/export/purchases.csv?date=
    GET    /api/export/meals.csv?date=

  Inventory metadata:
    GET    /api/inventory
    POST   /api/inventory
    PUT    /api/inventory/{id}
    DELETE /api/inventory/{id}

ERROR HANDLING:
  - 400: transport/structural validation failures (InvalidInputError)
  - 404: absent inventory item, empty export row set
  - 409: insufficient stock (item name and available quantity in details)
  - 500: storage failures, propagated from the provider

  Deleting an absent ledger event returns 204: delete is idempotent by
  contract.
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/midday/kitchen-engine/inventory"
	"github.com/midday/kitchen-engine/ledger"
	"github.com/midday/kitchen-engine/meal"
	"github.com/midday/kitchen-engine/report"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger   ledger.Ledger
	Items    ledger.ItemStore
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler creates a handler over the given ledger and item store.
func NewHandler(led ledger.Ledger, items ledger.ItemStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Ledger:   led,
		Items:    items,
		logger:   logger,
		validate: validator.New(),
	}
}

// =============================================================================
// PURCHASE HANDLERS
// =============================================================================

// ListPurchases returns purchase history, newest purchase date first.
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Ledger.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}

	dtos := []PurchaseDTO{}
	for i := len(entries) - 1; i >= 0; i-- {
		if p, ok := entries[i].(ledger.PurchaseEvent); ok {
			dtos = append(dtos, toPurchaseDTO(p))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePurchase records a new purchase event.
func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid purchase payload", err)
		return
	}

	var date ledger.Date
	if req.Date != "" {
		parsed, err := ledger.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		date = parsed
	}

	purchase, err := ledger.NewPurchase(req.ItemName, req.Quantity, ledger.Unit(req.Unit), req.UnitPrice, date)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}

	stored, err := h.Ledger.Append(r.Context(), purchase)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save purchase", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPurchaseDTO(stored.(ledger.PurchaseEvent)))
}

// DeletePurchase removes a purchase event. Unconditional: no referential
// check against meals that consumed it.
func (h *Handler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	h.deleteEntry(w, r)
}

// =============================================================================
// MEAL HANDLERS
// =============================================================================

// ListMeals returns meal history, newest meal date first.
func (h *Handler) ListMeals(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Ledger.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}

	dtos := []MealDTO{}
	for i := len(entries) - 1; i >= 0; i-- {
		if m, ok := entries[i].(ledger.MealEvent); ok {
			dtos = append(dtos, toMealDTO(m))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateMeal validates a proposed meal against current stock, costs it,
// and appends the resulting event.
func (h *Handler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	var req CreateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid meal payload", err)
		return
	}

	var date ledger.Date
	if req.Date != "" {
		parsed, err := ledger.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		date = parsed
	}

	entries, err := h.Ledger.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}

	result, err := meal.Propose(entries, toProposal(req, date))
	if err != nil {
		h.writeCoreError(w, err)
		return
	}
	if len(result.Unpriced) > 0 {
		h.logger.Warn("meal logged with unpriced ingredients",
			slog.String("meal_type", result.Event.MealType),
			slog.Any("items", result.Unpriced))
	}

	stored, err := h.Ledger.Append(r.Context(), result.Event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save meal log", err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateMealResponse{
		Meal:     toMealDTO(stored.(ledger.MealEvent)),
		Unpriced: result.Unpriced,
	})
}

// DeleteMeal removes a meal event.
func (h *Handler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	h.deleteEntry(w, r)
}

// deleteEntry removes any ledger event by id. Absent ids are a no-op, so
// the response is 204 either way.
func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id := ledger.ID(chi.URLParam(r, "id"))
	if err := h.Ledger.Remove(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// STOCK & REPORT HANDLERS
// =============================================================================

// GetStock returns the derived stock view.
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Ledger.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}
	writeJSON(w, http.StatusOK, toStockDTOs(inventory.Compute(entries)))
}

// GetMonthlyCosts returns monthly cost buckets, newest month first by
// default; ?order=asc re-reverses for chart consumers.
func (h *Handler) GetMonthlyCosts(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Ledger.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}
	costs := report.MonthlyCosts(entries)
	if r.URL.Query().Get("order") == "asc" {
		costs = report.Ascending(costs)
	}
	writeJSON(w, http.StatusOK, toMonthlyCostDTOs(costs))
}

// GetUsage returns cumulative ingredient usage, most used first.
func (h *Handler) GetUsage(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Ledger.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}
	writeJSON(w, http.StatusOK, toUsageDTOs(report.UsageTotals(entries)))
}

// =============================================================================
// EXPORT HANDLERS
// =============================================================================

func (h *Handler) ExportMonthlyCosts(w http.ResponseWriter, r *http.Request) {
	h.exportCSV(w, r, "monthly_cost_summary", func(entries []ledger.Entry) ([]string, []report.Row) {
		return report.MonthlyCostHeader, report.MonthlyCostRows(report.MonthlyCosts(entries))
	})
}

func (h *Handler) ExportUsage(w http.ResponseWriter, r *http.Request) {
	h.exportCSV(w, r, "ingredient_usage_summary", func(entries []ledger.Entry) ([]string, []report.Row) {
		return report.UsageHeader, report.UsageRows(report.UsageTotals(entries))
	})
}

func (h *Handler) ExportStock(w http.ResponseWriter, r *http.Request) {
	h.exportCSV(w, r, "inventory_stock", func(entries []ledger.Entry) ([]string, []report.Row) {
		return report.StockHeader, report.StockRows(inventory.Compute(entries))
	})
}

func (h *Handler) ExportPurchases(w http.ResponseWriter, r *http.Request) {
	h.exportCSV(w, r, "purchase_history", func(entries []ledger.Entry) ([]string, []report.Row) {
		return report.PurchaseHeader, report.PurchaseRows(entries)
	})
}

func (h *Handler) ExportMeals(w http.ResponseWriter, r *http.Request) {
	h.exportCSV(w, r, "meal_log_history", func(entries []ledger.Entry) ([]string, []report.Row) {
		return report.MealHeader, report.MealRows(entries)
	})
}

// exportCSV renders rows built from the current ledger as a CSV download.
// The optional ?date= filter applies to row sets that carry dates; an
// empty filtered set is a 404, mirroring the export contract's false flag.
func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request, filename string, build func([]ledger.Entry) ([]string, []report.Row)) {
	entries, err := h.Ledger.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}

	filterDate := r.URL.Query().Get("date")
	if filterDate != "" {
		if _, err := ledger.ParseDate(filterDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date filter (use YYYY-MM-DD)", err)
			return
		}
	}

	header, rows := build(entries)
	var buf bytes.Buffer
	ok, err := report.WriteRowsCSV(&buf, header, rows, filterDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build export", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "No data available for the selected criteria", nil)
		return
	}

	name := filename
	if filterDate != "" {
		name += "_" + filterDate
	} else {
		name += "_" + ledger.Today().String()
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// =============================================================================
// INVENTORY METADATA HANDLERS
// =============================================================================

// ListInventoryItems returns item metadata ordered by name.
func (h *Handler) ListInventoryItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.ListItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list inventory items", err)
		return
	}
	dtos := make([]InventoryItemDTO, len(items))
	for i, item := range items {
		dtos[i] = InventoryItemDTO{
			ID:   string(item.ID),
			Name: item.Name,
			Unit: string(item.Unit),
			Note: item.Note,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateInventoryItem records new item metadata.
func (h *Handler) CreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req SaveInventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid inventory item payload", err)
		return
	}

	item := ledger.ItemRecord{
		ID:   ledger.NewID(),
		Name: req.Name,
		Unit: ledger.Unit(req.Unit),
		Note: req.Note,
	}
	if err := h.Items.SaveItem(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save inventory item", err)
		return
	}
	writeJSON(w, http.StatusCreated, InventoryItemDTO{
		ID:   string(item.ID),
		Name: item.Name,
		Unit: string(item.Unit),
		Note: item.Note,
	})
}

// UpdateInventoryItem updates item metadata in place.
func (h *Handler) UpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req SaveInventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid inventory item payload", err)
		return
	}

	item := ledger.ItemRecord{
		ID:   ledger.ID(chi.URLParam(r, "id")),
		Name: req.Name,
		Unit: ledger.Unit(req.Unit),
		Note: req.Note,
	}
	err := h.Items.UpdateItem(r.Context(), item)
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Inventory item not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update inventory item", err)
		return
	}
	writeJSON(w, http.StatusOK, InventoryItemDTO{
		ID:   string(item.ID),
		Name: item.Name,
		Unit: string(item.Unit),
		Note: item.Note,
	})
}

// DeleteInventoryItem removes item metadata. Idempotent like event deletes.
func (h *Handler) DeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	err := h.Items.DeleteItem(r.Context(), ledger.ID(chi.URLParam(r, "id")))
	if err != nil && !errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to delete inventory item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

// writeCoreError maps core error types to HTTP statuses.
func (h *Handler) writeCoreError(w http.ResponseWriter, err error) {
	var invalid *ledger.InvalidInputError
	if errors.As(err, &invalid) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   invalid.Error(),
			Code:    "invalid_input",
			Details: map[string]string{"field": invalid.Field},
		})
		return
	}

	var stock *ledger.InsufficientStockError
	if errors.As(err, &stock) {
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error: stock.Error(),
			Code:  "insufficient_stock",
			Details: map[string]any{
				"item_name": stock.ItemName,
				"available": stock.Available,
			},
		})
		return
	}

	writeError(w, http.StatusInternalServerError, "Internal error", err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
