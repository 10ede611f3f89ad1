package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/inventory"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/erp/ledger/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const entityStockMovement = "stock movement"

// GormStockMovementRepository implements StockMovementRepository using GORM.
// Movements are only ever inserted.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a movement
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return create(ctx, r.db, models.StockMovementModelFromDomain(movement), entityStockMovement)
}

// FindByIDForTenant finds a movement by ID within a tenant
func (r *GormStockMovementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockMovement, error) {
	var model models.StockMovementModel
	if err := findForTenant(ctx, r.db, tenantID, id, false, &model, entityStockMovement); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists movements, newest first unless another order is requested
func (r *GormStockMovementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter inventory.MovementFilter) ([]inventory.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockMovementModel{}).Scopes(tenant.Scope(tenantID))
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.MovementType != "" {
		query = query.Where("movement_type = ?", string(filter.MovementType))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR reference LIKE ?", like, like)
	}
	query = applyDateRange(query, "movement_date", filter.DateRange)

	var rows []models.StockMovementModel
	total, err := countAndFind(query, filter.Filter, StockMovementSortFields, "movement_date", &rows, entityStockMovement)
	if err != nil {
		return nil, 0, err
	}
	movements := make([]inventory.StockMovement, len(rows))
	for i := range rows {
		movements[i] = *rows[i].ToDomain()
	}
	return movements, total, nil
}

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
