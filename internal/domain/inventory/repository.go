package inventory

import (
	"context"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemFilter narrows item listings
type ItemFilter struct {
	shared.Filter
	Category        string
	IncludeInactive bool
	BelowReorder    bool
}

// MovementFilter narrows movement listings
type MovementFilter struct {
	shared.Filter
	shared.DateRange
	ItemID       *uuid.UUID
	MovementType MovementType
}

// InventoryItemRepository defines the interface for inventory item persistence
type InventoryItemRepository interface {
	// FindByIDForTenant finds an item by ID within a tenant, active or not
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)

	// FindByIDForUpdate loads the item and holds a row lock until the surrounding
	// transaction ends. Only valid inside a TransactionScope.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)

	// FindAllForTenant lists items and returns the total count before paging
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ItemFilter) ([]InventoryItem, int64, error)

	// Create inserts a new item
	Create(ctx context.Context, item *InventoryItem) error

	// Save persists a mutated item, checking the version it was loaded with
	Save(ctx context.Context, item *InventoryItem) error
}

// StockMovementRepository persists stock movements. Movements are append-only.
type StockMovementRepository interface {
	// Create appends a movement
	Create(ctx context.Context, movement *StockMovement) error

	// FindByIDForTenant finds a movement by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockMovement, error)

	// FindAllForTenant lists movements newest first
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter MovementFilter) ([]StockMovement, int64, error)
}
