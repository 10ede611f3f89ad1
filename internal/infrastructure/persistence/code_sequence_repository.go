package persistence

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const nextCodeSQL = `INSERT INTO code_sequences (tenant_id, prefix, last_value, updated_at)
VALUES (?, ?, 1, ?)
ON CONFLICT (tenant_id, prefix) DO UPDATE
SET last_value = code_sequences.last_value + 1, updated_at = ?
RETURNING last_value`

// GormCodeSequenceRepository issues per-tenant code numbers from the
// code_sequences table. The upsert takes the row lock, so concurrent callers
// queue behind each other and the counter rolls back with the caller's transaction.
type GormCodeSequenceRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormCodeSequenceRepository creates a new GormCodeSequenceRepository
func NewGormCodeSequenceRepository(db *gorm.DB) *GormCodeSequenceRepository {
	return &GormCodeSequenceRepository{db: db, now: time.Now}
}

// Next returns the next number of the tenant's prefix series, starting at 1
func (r *GormCodeSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, prefix string) (int64, error) {
	now := r.now()
	var next int64
	if err := r.db.WithContext(ctx).Raw(nextCodeSQL, tenantID, prefix, now, now).Scan(&next).Error; err != nil {
		return 0, shared.WrapPersistenceError("next code "+prefix, err)
	}
	return next, nil
}

var _ shared.CodeSequenceRepository = (*GormCodeSequenceRepository)(nil)
