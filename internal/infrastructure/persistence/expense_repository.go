package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/erp/ledger/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const entityExpense = "expense"

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByIDForTenant finds an expense by ID within a tenant
func (r *GormExpenseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Expense, error) {
	return r.find(ctx, tenantID, id, false)
}

// FindByIDForUpdate finds the expense and locks its row
func (r *GormExpenseRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.Expense, error) {
	return r.find(ctx, tenantID, id, true)
}

func (r *GormExpenseRepository) find(ctx context.Context, tenantID, id uuid.UUID, lock bool) (*finance.Expense, error) {
	var model models.ExpenseModel
	if err := findForTenant(ctx, r.db, tenantID, id, lock, &model, entityExpense); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists expenses for a tenant
func (r *GormExpenseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ExpenseFilter) ([]finance.Expense, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).Scopes(tenant.Scope(tenantID))
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.PettyCashAccountID != nil {
		query = query.Where("petty_cash_account_id = ?", *filter.PettyCashAccountID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR description LIKE ?", like, like)
	}
	query = applyDateRange(query, "expense_date", filter.DateRange)

	var rows []models.ExpenseModel
	total, err := countAndFind(query, filter.Filter, ExpenseSortFields, "expense_date", &rows, entityExpense)
	if err != nil {
		return nil, 0, err
	}
	expenses := make([]finance.Expense, len(rows))
	for i := range rows {
		expenses[i] = *rows[i].ToDomain()
	}
	return expenses, total, nil
}

// Create inserts a new expense
func (r *GormExpenseRepository) Create(ctx context.Context, expense *finance.Expense) error {
	return create(ctx, r.db, models.ExpenseModelFromDomain(expense), entityExpense)
}

// Save persists workflow columns under optimistic locking
func (r *GormExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	return saveVersioned(ctx, r.db, &models.ExpenseModel{}, expense.TenantAggregateRoot, map[string]any{
		"category":                  expense.Category,
		"description":               expense.Description,
		"status":                    string(expense.Status),
		"petty_cash_account_id":     expense.PettyCashAccountID,
		"petty_cash_transaction_id": expense.PettyCashTransactionID,
		"approved_by":               expense.ApprovedBy,
		"approved_at":               expense.ApprovedAt,
		"rejection_reason":          expense.RejectionReason,
		"paid_at":                   expense.PaidAt,
		"cancelled_at":              expense.CancelledAt,
		"updated_at":                expense.UpdatedAt,
	}, entityExpense)
}

var _ finance.ExpenseRepository = (*GormExpenseRepository)(nil)
