package inventory

import (
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeInventoryItem names the aggregate in published events
const AggregateTypeInventoryItem = "InventoryItem"

// Event type constants
const (
	EventTypeStockMovementRecorded  = "StockMovementRecorded"
	EventTypeStockBelowReorderLevel = "StockBelowReorderLevel"
)

// WarningCodeBelowReorderLevel tags the low stock alert in metrics and logs
const WarningCodeBelowReorderLevel = "BELOW_REORDER_LEVEL"

// StockMovementRecordedEvent is raised for every committed stock movement
type StockMovementRecordedEvent struct {
	shared.BaseDomainEvent
	ItemID        uuid.UUID       `json:"item_id"`
	MovementID    uuid.UUID       `json:"movement_id"`
	MovementCode  string          `json:"movement_code"`
	MovementType  MovementType    `json:"movement_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
}

// NewStockMovementRecordedEvent creates a new StockMovementRecordedEvent
func NewStockMovementRecordedEvent(item *InventoryItem, m *StockMovement) *StockMovementRecordedEvent {
	return &StockMovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementRecorded, AggregateTypeInventoryItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		MovementID:      m.ID,
		MovementCode:    m.Code,
		MovementType:    m.MovementType,
		Quantity:        m.Quantity,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
	}
}

// StockBelowReorderLevelEvent is raised when a movement takes stock under the reorder level
type StockBelowReorderLevelEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID       `json:"item_id"`
	ItemCode     string          `json:"item_code"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// NewStockBelowReorderLevelEvent creates a new StockBelowReorderLevelEvent
func NewStockBelowReorderLevelEvent(item *InventoryItem) *StockBelowReorderLevelEvent {
	return &StockBelowReorderLevelEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowReorderLevel, AggregateTypeInventoryItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		ItemCode:        item.Code,
		CurrentStock:    item.CurrentStock,
		ReorderLevel:    item.ReorderLevel,
	}
}
