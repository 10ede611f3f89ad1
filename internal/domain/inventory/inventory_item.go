package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemCode is the code series for inventory items (ITM0001)
var ItemCode = shared.CodeSpec{Prefix: "ITM", Width: 4}

// InventoryItem is the aggregate root holding the current stock of one stock-keeping item.
// CurrentStock always equals InitialStock plus the signed effects of all movements.
type InventoryItem struct {
	shared.TenantAggregateRoot
	Code         string
	Name         string
	Category     string
	Unit         string
	InitialStock decimal.Decimal
	CurrentStock decimal.Decimal
	ReorderLevel decimal.Decimal
	IsActive     bool
}

// NewInventoryItem creates a new active item with its opening stock
func NewInventoryItem(tenantID uuid.UUID, code, name, category, unit string, openingStock, reorderLevel decimal.Decimal) (*InventoryItem, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewValidationError("INVALID_CODE", "code", "Item code is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("INVALID_NAME", "name", "Item name is required")
	}
	if openingStock.IsNegative() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "opening_stock", "Opening stock cannot be negative").
			WithDetail("value", openingStock.String())
	}
	if reorderLevel.IsNegative() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "reorder_level", "Reorder level cannot be negative").
			WithDetail("value", reorderLevel.String())
	}
	if unit == "" {
		unit = "PCS"
	}

	return &InventoryItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                strings.TrimSpace(name),
		Category:            strings.TrimSpace(category),
		Unit:                unit,
		InitialStock:        openingStock,
		CurrentStock:        openingStock,
		ReorderLevel:        reorderLevel,
		IsActive:            true,
	}, nil
}

// RecordMovement validates a movement against the current stock, applies it and
// returns the immutable movement record carrying the before/after snapshot.
// On error the item is left untouched.
func (i *InventoryItem) RecordMovement(code string, movementType MovementType, quantity decimal.Decimal, details MovementDetails) (*StockMovement, error) {
	if !i.IsActive {
		return nil, shared.NewNotFoundError("inventory item", i.ID)
	}
	if !movementType.IsValid() {
		return nil, shared.NewValidationError("INVALID_MOVEMENT_TYPE", "movement_type",
			fmt.Sprintf("Unknown movement type %q", movementType))
	}
	if err := validateMovementQuantity(movementType, quantity); err != nil {
		return nil, err
	}
	if movementType == MovementTypeTransfer && details.FromLocation == details.ToLocation && details.FromLocation != "" {
		return nil, shared.NewValidationError("INVALID_LOCATION", "to_location", "Transfer source and destination must differ")
	}

	before := i.CurrentStock
	after := movementType.Apply(before, quantity)
	if after.IsNegative() {
		return nil, shared.NewDomainError(shared.KindInsufficientStock, "INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s: available %s, requested %s", i.Code, before.String(), quantity.String())).
			WithDetail("field", "quantity").
			WithDetail("available", before.String()).
			WithDetail("requested", quantity.String())
	}

	movementDate := details.MovementDate
	if movementDate.IsZero() {
		movementDate = time.Now()
	}

	movement := &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      i.TenantID,
		ItemID:        i.ID,
		Code:          code,
		MovementType:  movementType,
		Quantity:      quantity,
		BalanceBefore: before,
		BalanceAfter:  after,
		FromLocation:  details.FromLocation,
		ToLocation:    details.ToLocation,
		Reference:     details.Reference,
		Notes:         details.Notes,
		MovementDate:  movementDate,
		CreatedBy:     details.CreatedBy,
	}

	i.CurrentStock = after
	i.Touch()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockMovementRecordedEvent(i, movement))
	if i.crossedReorderLevel(before, after) {
		i.AddDomainEvent(NewStockBelowReorderLevelEvent(i))
	}

	return movement, nil
}

// Deactivate soft-deletes the item. Movements keep referencing it.
func (i *InventoryItem) Deactivate() {
	if !i.IsActive {
		return
	}
	i.IsActive = false
	i.Touch()
	i.IncrementVersion()
}

// IsBelowReorderLevel reports whether current stock is under a configured reorder level
func (i *InventoryItem) IsBelowReorderLevel() bool {
	return i.ReorderLevel.IsPositive() && i.CurrentStock.LessThan(i.ReorderLevel)
}

func (i *InventoryItem) crossedReorderLevel(before, after decimal.Decimal) bool {
	if !i.ReorderLevel.IsPositive() {
		return false
	}
	return !before.LessThan(i.ReorderLevel) && after.LessThan(i.ReorderLevel)
}

func validateMovementQuantity(movementType MovementType, quantity decimal.Decimal) error {
	// An adjustment states the counted level, which may legitimately be zero.
	if movementType.IsAbsolute() {
		if quantity.IsNegative() {
			return shared.NewValidationError("INVALID_QUANTITY", "quantity", "Adjusted stock level cannot be negative").
				WithDetail("value", quantity.String())
		}
		return nil
	}
	if !quantity.IsPositive() {
		return shared.NewValidationError("INVALID_QUANTITY", "quantity", "Quantity must be greater than zero").
			WithDetail("value", quantity.String())
	}
	return nil
}
