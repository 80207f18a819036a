/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal event types from the external contract. Display strings
  (formatted currency) ride alongside the raw numbers so clients don't
  re-implement rupee formatting.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

VALIDATION:
  Transport shape (required fields, date format, unit enum) is validated
  with go-playground/validator struct tags in the handlers; business rules
  (stock sufficiency, costing) stay in the meal package and surface
  through the core error types.
*/
package api

import (
	"github.com/midday/kitchen-engine/currency"
	"github.com/midday/kitchen-engine/inventory"
	"github.com/midday/kitchen-engine/ledger"
	"github.com/midday/kitchen-engine/meal"
	"github.com/midday/kitchen-engine/report"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PurchaseDTO represents a purchase event in API responses.
type PurchaseDTO struct {
	ID           string   `json:"id"`
	ItemName     string   `json:"item_name"`
	Quantity     float64  `json:"quantity"`
	Unit         string   `json:"unit"`
	UnitPrice    float64  `json:"unit_price"`
	PricePerKg   *float64 `json:"price_per_kg,omitempty"`
	TotalPrice   float64  `json:"total_price"`
	TotalDisplay string   `json:"total_display"`
	Date         string   `json:"date"`
}

// CreatePurchaseRequest is the request to record a purchase. The tags
// check transport shape only; required-ness and ranges are enforced by
// ledger.NewPurchase so failures carry the core field names.
type CreatePurchaseRequest struct {
	ItemName  string  `json:"item_name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit" validate:"omitempty,oneof=kg g L ml pcs unit pack box"`
	UnitPrice float64 `json:"unit_price"`
	Date      string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// UsedItemDTO is one ingredient line of a meal.
type UsedItemDTO struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// MealDTO represents a meal event in API responses.
type MealDTO struct {
	ID                    string        `json:"id"`
	MealType              string        `json:"meal_type"`
	Date                  string        `json:"date"`
	StudentCount          int           `json:"student_count"`
	ItemsUsed             []UsedItemDTO `json:"items_used"`
	TotalCost             float64       `json:"total_cost"`
	TotalCostDisplay      string        `json:"total_cost_display"`
	CostPerStudent        float64       `json:"cost_per_student"`
	CostPerStudentDisplay string        `json:"cost_per_student_display"`
}

// CreateMealRequest is the request to log a meal preparation. Business
// validation beyond the date format happens in meal.Propose.
type CreateMealRequest struct {
	MealType     string        `json:"meal_type"`
	Date         string        `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StudentCount int           `json:"student_count"`
	Items        []UsedItemDTO `json:"items"`
}

// CreateMealResponse wraps the logged meal plus warning conditions.
type CreateMealResponse struct {
	Meal     MealDTO  `json:"meal"`
	Unpriced []string `json:"unpriced_items,omitempty"`
}

// StockEntryDTO represents one item of the derived stock view.
type StockEntryDTO struct {
	Name              string  `json:"name"`
	Quantity          float64 `json:"quantity"`
	AverageCost       float64 `json:"average_cost"`
	AvgCostDisplay    string  `json:"average_cost_display"`
	TotalValue        float64 `json:"total_value"`
	TotalValueDisplay string  `json:"total_value_display"`
}

// MonthlyCostDTO is one month bucket of the cost report.
type MonthlyCostDTO struct {
	Month    string  `json:"month"`
	Purchase float64 `json:"purchase"`
	Meal     float64 `json:"meal"`
}

// UsageDTO is one row of the ingredient usage report.
type UsageDTO struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// InventoryItemDTO represents inventory item metadata.
type InventoryItemDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit,omitempty"`
	Note string `json:"note,omitempty"`
}

// SaveInventoryItemRequest creates or updates item metadata.
type SaveInventoryItemRequest struct {
	Name string `json:"name" validate:"required"`
	Unit string `json:"unit" validate:"omitempty,oneof=kg g L ml pcs unit pack box"`
	Note string `json:"note"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPurchaseDTO(p ledger.PurchaseEvent) PurchaseDTO {
	dto := PurchaseDTO{
		ID:           string(p.ID),
		ItemName:     p.ItemName,
		Quantity:     p.Quantity,
		Unit:         string(p.Unit),
		UnitPrice:    p.UnitPrice,
		TotalPrice:   p.TotalPrice,
		TotalDisplay: currency.Format(p.TotalPrice),
		Date:         p.Date.String(),
	}
	if perKg, ok := p.PricePerKg(); ok {
		dto.PricePerKg = &perKg
	}
	return dto
}

func toMealDTO(m ledger.MealEvent) MealDTO {
	items := make([]UsedItemDTO, len(m.ItemsUsed))
	for i, item := range m.ItemsUsed {
		items[i] = UsedItemDTO{Name: item.Name, Quantity: item.Quantity}
	}
	return MealDTO{
		ID:                    string(m.ID),
		MealType:              m.MealType,
		Date:                  m.Date.String(),
		StudentCount:          m.StudentCount,
		ItemsUsed:             items,
		TotalCost:             m.TotalCost,
		TotalCostDisplay:      currency.Format(m.TotalCost),
		CostPerStudent:        m.CostPerStudent,
		CostPerStudentDisplay: currency.Format(m.CostPerStudent),
	}
}

func toStockDTOs(stock []inventory.StockEntry) []StockEntryDTO {
	dtos := make([]StockEntryDTO, len(stock))
	for i, s := range stock {
		dtos[i] = StockEntryDTO{
			Name:              s.Name,
			Quantity:          s.Quantity,
			AverageCost:       s.AverageCost,
			AvgCostDisplay:    currency.Format(s.AverageCost),
			TotalValue:        s.TotalValue,
			TotalValueDisplay: currency.Format(s.TotalValue),
		}
	}
	return dtos
}

func toMonthlyCostDTOs(costs []report.MonthlyCost) []MonthlyCostDTO {
	dtos := make([]MonthlyCostDTO, len(costs))
	for i, c := range costs {
		dtos[i] = MonthlyCostDTO{Month: c.Month, Purchase: c.Purchase, Meal: c.Meal}
	}
	return dtos
}

func toUsageDTOs(usage []report.IngredientUsage) []UsageDTO {
	dtos := make([]UsageDTO, len(usage))
	for i, u := range usage {
		dtos[i] = UsageDTO{Name: u.Name, Quantity: u.Quantity}
	}
	return dtos
}

func toProposal(req CreateMealRequest, date ledger.Date) meal.Proposal {
	items := make([]ledger.UsedItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = ledger.UsedItem{Name: item.Name, Quantity: item.Quantity}
	}
	return meal.Proposal{
		MealType:     req.MealType,
		Date:         date,
		StudentCount: req.StudentCount,
		Items:        items,
	}
}
