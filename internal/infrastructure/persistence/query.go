package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// findForTenant loads one row scoped to the tenant into dest. With lock set the
// row is read with SELECT ... FOR UPDATE and stays locked until the surrounding
// transaction ends.
func findForTenant(ctx context.Context, db *gorm.DB, tenantID, id uuid.UUID, lock bool, dest any, entity string) error {
	query := db.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := query.Where("tenant_id = ? AND id = ?", tenantID, id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(entity, id)
	}
	return shared.WrapPersistenceError("find "+entity, err)
}

// saveVersioned applies updates to a row only while it still carries the
// version the aggregate was loaded with.
func saveVersioned(ctx context.Context, db *gorm.DB, model any, root shared.TenantAggregateRoot, updates map[string]any, entity string) error {
	id, version := root.ID, root.Version
	updates["version"] = version
	result := db.WithContext(ctx).
		Model(model).
		Where("tenant_id = ? AND id = ? AND version = ?", root.TenantID, id, version-1).
		Updates(updates)
	if result.Error != nil {
		return shared.WrapPersistenceError("save "+entity, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.KindConflict, "OPTIMISTIC_LOCK_FAILED",
			fmt.Sprintf("%s was modified by another transaction", entity)).WithDetail("id", id.String())
	}
	return nil
}

// applyDateRange restricts column to the inclusive range
func applyDateRange(query *gorm.DB, column string, r shared.DateRange) *gorm.DB {
	if r.From != nil {
		query = query.Where(column+" >= ?", *r.From)
	}
	if end := r.EndExclusive(); end != nil {
		query = query.Where(column+" < ?", *end)
	}
	return query
}

// applyPaging adds whitelisted ordering and the page window
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	filter.Normalize()
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if field != "id" {
		query = query.Order("id")
	}
	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}

// countAndFind counts the filtered rows then loads the requested page
func countAndFind(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string, dest any, entity string) (int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, shared.WrapPersistenceError("count "+entity, err)
	}
	if err := applyPaging(query, filter, allowed, defaultField).Find(dest).Error; err != nil {
		return 0, shared.WrapPersistenceError("list "+entity, err)
	}
	return total, nil
}

func create(ctx context.Context, db *gorm.DB, model any, entity string) error {
	return shared.WrapPersistenceError("create "+entity, db.WithContext(ctx).Create(model).Error)
}
