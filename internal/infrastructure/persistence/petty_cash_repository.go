package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/erp/ledger/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	entityPettyCashAccount     = "petty cash account"
	entityPettyCashTransaction = "petty cash transaction"
)

// GormPettyCashAccountRepository implements PettyCashAccountRepository using GORM
type GormPettyCashAccountRepository struct {
	db *gorm.DB
}

// NewGormPettyCashAccountRepository creates a new GormPettyCashAccountRepository
func NewGormPettyCashAccountRepository(db *gorm.DB) *GormPettyCashAccountRepository {
	return &GormPettyCashAccountRepository{db: db}
}

// FindByIDForTenant finds an account by ID within a tenant
func (r *GormPettyCashAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.PettyCashAccount, error) {
	return r.find(ctx, tenantID, id, false)
}

// FindByIDForUpdate finds the account and locks its row
func (r *GormPettyCashAccountRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.PettyCashAccount, error) {
	return r.find(ctx, tenantID, id, true)
}

func (r *GormPettyCashAccountRepository) find(ctx context.Context, tenantID, id uuid.UUID, lock bool) (*finance.PettyCashAccount, error) {
	var model models.PettyCashAccountModel
	if err := findForTenant(ctx, r.db, tenantID, id, lock, &model, entityPettyCashAccount); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists accounts for a tenant
func (r *GormPettyCashAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.PettyCashAccountFilter) ([]finance.PettyCashAccount, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PettyCashAccountModel{}).Scopes(tenant.Scope(tenantID))
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR name LIKE ? OR custodian LIKE ?", like, like, like)
	}

	var rows []models.PettyCashAccountModel
	total, err := countAndFind(query, filter.Filter, PettyCashAccountSortFields, "code", &rows, entityPettyCashAccount)
	if err != nil {
		return nil, 0, err
	}
	accounts := make([]finance.PettyCashAccount, len(rows))
	for i := range rows {
		accounts[i] = *rows[i].ToDomain()
	}
	return accounts, total, nil
}

// Create inserts a new account
func (r *GormPettyCashAccountRepository) Create(ctx context.Context, account *finance.PettyCashAccount) error {
	return create(ctx, r.db, models.PettyCashAccountModelFromDomain(account), entityPettyCashAccount)
}

// Save persists balance and settings under optimistic locking
func (r *GormPettyCashAccountRepository) Save(ctx context.Context, account *finance.PettyCashAccount) error {
	return saveVersioned(ctx, r.db, &models.PettyCashAccountModel{}, account.TenantAggregateRoot, map[string]any{
		"name":            account.Name,
		"custodian":       account.Custodian,
		"current_balance": account.CurrentBalance,
		"max_limit":       account.MaxLimit,
		"min_balance":     account.MinBalance,
		"is_active":       account.IsActive,
		"updated_at":      account.UpdatedAt,
	}, entityPettyCashAccount)
}

// GormPettyCashTransactionRepository implements PettyCashTransactionRepository using GORM.
// Transactions are only ever inserted.
type GormPettyCashTransactionRepository struct {
	db *gorm.DB
}

// NewGormPettyCashTransactionRepository creates a new GormPettyCashTransactionRepository
func NewGormPettyCashTransactionRepository(db *gorm.DB) *GormPettyCashTransactionRepository {
	return &GormPettyCashTransactionRepository{db: db}
}

// Create appends a transaction
func (r *GormPettyCashTransactionRepository) Create(ctx context.Context, tx *finance.PettyCashTransaction) error {
	return create(ctx, r.db, models.PettyCashTransactionModelFromDomain(tx), entityPettyCashTransaction)
}

// FindByIDForTenant finds a transaction by ID within a tenant
func (r *GormPettyCashTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.PettyCashTransaction, error) {
	var model models.PettyCashTransactionModel
	if err := findForTenant(ctx, r.db, tenantID, id, false, &model, entityPettyCashTransaction); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists transactions for a tenant
func (r *GormPettyCashTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.PettyCashTransactionFilter) ([]finance.PettyCashTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PettyCashTransactionModel{}).Scopes(tenant.Scope(tenantID))
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.TransactionType != "" {
		query = query.Where("transaction_type = ?", string(filter.TransactionType))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR description LIKE ? OR reference LIKE ?", like, like, like)
	}
	query = applyDateRange(query, "transaction_date", filter.DateRange)

	var rows []models.PettyCashTransactionModel
	total, err := countAndFind(query, filter.Filter, PettyCashTransactionSortFields, "transaction_date", &rows, entityPettyCashTransaction)
	if err != nil {
		return nil, 0, err
	}
	txs := make([]finance.PettyCashTransaction, len(rows))
	for i := range rows {
		txs[i] = *rows[i].ToDomain()
	}
	return txs, total, nil
}

var (
	_ finance.PettyCashAccountRepository     = (*GormPettyCashAccountRepository)(nil)
	_ finance.PettyCashTransactionRepository = (*GormPettyCashTransactionRepository)(nil)
)
