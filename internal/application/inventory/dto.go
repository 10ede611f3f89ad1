package inventory

import (
	"time"

	"github.com/erp/ledger/internal/domain/inventory"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemResponse represents an inventory item in API responses
type ItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Unit              string          `json:"unit"`
	InitialStock      decimal.Decimal `json:"initial_stock"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	ReorderLevel      decimal.Decimal `json:"reorder_level"`
	IsBelowReorderLvl bool            `json:"is_below_reorder_level"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// StockMovementResponse represents a stock movement in API responses
type StockMovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	ItemID        uuid.UUID       `json:"item_id"`
	Code          string          `json:"code"`
	MovementType  string          `json:"movement_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	FromLocation  string          `json:"from_location,omitempty"`
	ToLocation    string          `json:"to_location,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	MovementDate  time.Time       `json:"movement_date"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreateItemRequest represents a request to create an inventory item
type CreateItemRequest struct {
	Name         string          `json:"name" binding:"required,max=200"`
	Category     string          `json:"category" binding:"max=100"`
	Unit         string          `json:"unit" binding:"max=20"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	CreatedBy    *uuid.UUID      `json:"-"`
}

// RecordMovementRequest represents a request to record one stock movement
type RecordMovementRequest struct {
	ItemID       uuid.UUID       `json:"item_id" binding:"required"`
	MovementType string          `json:"movement_type" binding:"required,oneof=RECEIPT ISSUE TRANSFER ADJUSTMENT RETURN"`
	Quantity     decimal.Decimal `json:"quantity"`
	FromLocation string          `json:"from_location" binding:"max=100"`
	ToLocation   string          `json:"to_location" binding:"max=100"`
	Reference    string          `json:"reference" binding:"max=100"`
	Notes        string          `json:"notes" binding:"max=500"`
	MovementDate *time.Time      `json:"movement_date"`
	CreatedBy    *uuid.UUID      `json:"-"`
}

// ItemListFilter represents filter options for item listings
type ItemListFilter struct {
	Search          string `form:"search"`
	Category        string `form:"category"`
	IncludeInactive bool   `form:"include_inactive"`
	BelowReorder    bool   `form:"below_reorder"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string `form:"order_by"`
	OrderDir        string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MovementListFilter represents filter options for movement listings
type MovementListFilter struct {
	ItemID       *uuid.UUID `form:"-"`
	MovementType string     `form:"movement_type" binding:"omitempty,oneof=RECEIPT ISSUE TRANSFER ADJUSTMENT RETURN"`
	From         *time.Time `form:"from" time_format:"2006-01-02"`
	To           *time.Time `form:"to" time_format:"2006-01-02"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ItemListFilter) toDomain() inventory.ItemFilter {
	base := shared.Filter{Page: f.Page, PageSize: f.PageSize, OrderBy: f.OrderBy, OrderDir: f.OrderDir, Search: f.Search}
	base.Normalize()
	return inventory.ItemFilter{
		Filter:          base,
		Category:        f.Category,
		IncludeInactive: f.IncludeInactive,
		BelowReorder:    f.BelowReorder,
	}
}

func (f MovementListFilter) toDomain() (inventory.MovementFilter, error) {
	dr := shared.DateRange{From: f.From, To: f.To}
	if err := dr.Validate(); err != nil {
		return inventory.MovementFilter{}, err
	}
	base := shared.Filter{Page: f.Page, PageSize: f.PageSize, OrderBy: "movement_date", OrderDir: f.OrderDir}
	base.Normalize()
	return inventory.MovementFilter{
		Filter:       base,
		DateRange:    dr,
		ItemID:       f.ItemID,
		MovementType: inventory.MovementType(f.MovementType),
	}, nil
}

// ToItemResponse converts a domain item to a response
func ToItemResponse(item *inventory.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:                item.ID,
		TenantID:          item.TenantID,
		Code:              item.Code,
		Name:              item.Name,
		Category:          item.Category,
		Unit:              item.Unit,
		InitialStock:      item.InitialStock,
		CurrentStock:      item.CurrentStock,
		ReorderLevel:      item.ReorderLevel,
		IsBelowReorderLvl: item.IsBelowReorderLevel(),
		IsActive:          item.IsActive,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
		Version:           item.Version,
	}
}

// ToStockMovementResponse converts a domain movement to a response
func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:            m.ID,
		ItemID:        m.ItemID,
		Code:          m.Code,
		MovementType:  string(m.MovementType),
		Quantity:      m.Quantity,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		FromLocation:  m.FromLocation,
		ToLocation:    m.ToLocation,
		Reference:     m.Reference,
		Notes:         m.Notes,
		MovementDate:  m.MovementDate,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
