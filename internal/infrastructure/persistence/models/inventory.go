package models

import (
	"time"

	"github.com/erp/ledger/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItemModel is the persistence model for the InventoryItem aggregate root.
type InventoryItemModel struct {
	TenantAggregateModel
	Code         string          `gorm:"type:varchar(20);not null"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Category     string          `gorm:"type:varchar(100);index"`
	Unit         string          `gorm:"type:varchar(20);not null"`
	InitialStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive     bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the model to a domain InventoryItem
func (m *InventoryItemModel) ToDomain() *inventory.InventoryItem {
	return &inventory.InventoryItem{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Category:            m.Category,
		Unit:                m.Unit,
		InitialStock:        m.InitialStock,
		CurrentStock:        m.CurrentStock,
		ReorderLevel:        m.ReorderLevel,
		IsActive:            m.IsActive,
	}
}

// InventoryItemModelFromDomain builds a model from a domain item
func InventoryItemModelFromDomain(i *inventory.InventoryItem) *InventoryItemModel {
	m := &InventoryItemModel{
		Code:         i.Code,
		Name:         i.Name,
		Category:     i.Category,
		Unit:         i.Unit,
		InitialStock: i.InitialStock,
		CurrentStock: i.CurrentStock,
		ReorderLevel: i.ReorderLevel,
		IsActive:     i.IsActive,
	}
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	return m
}

// StockMovementModel is the append-only stock ledger row
type StockMovementModel struct {
	BaseModel
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movements_tenant_date,priority:1"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code          string          `gorm:"type:varchar(20);not null"`
	MovementType  string          `gorm:"type:varchar(20);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	FromLocation  string          `gorm:"type:varchar(100)"`
	ToLocation    string          `gorm:"type:varchar(100)"`
	Reference     string          `gorm:"type:varchar(100)"`
	Notes         string          `gorm:"type:text"`
	MovementDate  time.Time       `gorm:"not null;index:idx_stock_movements_tenant_date,priority:2"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the model to a domain StockMovement
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		BaseEntity:    m.toEntity(),
		TenantID:      m.TenantID,
		ItemID:        m.ItemID,
		Code:          m.Code,
		MovementType:  inventory.MovementType(m.MovementType),
		Quantity:      m.Quantity,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		FromLocation:  m.FromLocation,
		ToLocation:    m.ToLocation,
		Reference:     m.Reference,
		Notes:         m.Notes,
		MovementDate:  m.MovementDate,
		CreatedBy:     m.CreatedBy,
	}
}

// StockMovementModelFromDomain builds a model from a domain movement
func StockMovementModelFromDomain(s *inventory.StockMovement) *StockMovementModel {
	m := &StockMovementModel{
		TenantID:      s.TenantID,
		ItemID:        s.ItemID,
		Code:          s.Code,
		MovementType:  string(s.MovementType),
		Quantity:      s.Quantity,
		BalanceBefore: s.BalanceBefore,
		BalanceAfter:  s.BalanceAfter,
		FromLocation:  s.FromLocation,
		ToLocation:    s.ToLocation,
		Reference:     s.Reference,
		Notes:         s.Notes,
		MovementDate:  s.MovementDate,
		CreatedBy:     s.CreatedBy,
	}
	m.fromEntity(s.BaseEntity)
	return m
}
