package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/inventory"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/erp/ledger/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const entityInventoryItem = "inventory item"

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByIDForTenant finds an inventory item by ID within a tenant
func (r *GormInventoryItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	return r.find(ctx, tenantID, id, false)
}

// FindByIDForUpdate finds the item and locks its row
func (r *GormInventoryItemRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	return r.find(ctx, tenantID, id, true)
}

func (r *GormInventoryItemRepository) find(ctx context.Context, tenantID, id uuid.UUID, lock bool) (*inventory.InventoryItem, error) {
	var model models.InventoryItemModel
	if err := findForTenant(ctx, r.db, tenantID, id, lock, &model, entityInventoryItem); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists items for a tenant with the total before paging
func (r *GormInventoryItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter inventory.ItemFilter) ([]inventory.InventoryItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).Scopes(tenant.Scope(tenantID))
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.BelowReorder {
		query = query.Where("reorder_level > 0 AND current_stock < reorder_level")
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR name LIKE ?", like, like)
	}

	var rows []models.InventoryItemModel
	total, err := countAndFind(query, filter.Filter, InventoryItemSortFields, "code", &rows, entityInventoryItem)
	if err != nil {
		return nil, 0, err
	}
	items := make([]inventory.InventoryItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

// Create inserts a new item
func (r *GormInventoryItemRepository) Create(ctx context.Context, item *inventory.InventoryItem) error {
	return create(ctx, r.db, models.InventoryItemModelFromDomain(item), entityInventoryItem)
}

// Save persists the mutable columns of an item under optimistic locking
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return saveVersioned(ctx, r.db, &models.InventoryItemModel{}, item.TenantAggregateRoot, map[string]any{
		"name":          item.Name,
		"category":      item.Category,
		"unit":          item.Unit,
		"current_stock": item.CurrentStock,
		"reorder_level": item.ReorderLevel,
		"is_active":     item.IsActive,
		"updated_at":    item.UpdatedAt,
	}, entityInventoryItem)
}

var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
