package persistence

import (
	"context"

	appfinance "github.com/erp/ledger/internal/application/finance"
	appinv "github.com/erp/ledger/internal/application/inventory"
	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/inventory"
	"github.com/erp/ledger/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope implements the inventory TransactionScope using GORM transactions.
// Every repository handed to fn shares the same *gorm.DB transaction.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope.
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

type gormInventoryRepositories struct {
	tx *gorm.DB
}

func (r *gormInventoryRepositories) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormInventoryRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormInventoryRepositories) CodeSequence() shared.CodeSequenceRepository {
	return NewGormCodeSequenceRepository(r.tx)
}

// GormFinanceTransactionScope implements the finance TransactionScope using GORM transactions.
type GormFinanceTransactionScope struct {
	db *gorm.DB
}

// NewGormFinanceTransactionScope creates a new GormFinanceTransactionScope.
func NewGormFinanceTransactionScope(db *gorm.DB) *GormFinanceTransactionScope {
	return &GormFinanceTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormFinanceTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormFinanceRepositories{tx: tx})
	})
}

type gormFinanceRepositories struct {
	tx *gorm.DB
}

func (r *gormFinanceRepositories) InvoiceRepo() finance.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormFinanceRepositories) BillRepo() finance.BillRepository {
	return NewGormBillRepository(r.tx)
}

func (r *gormFinanceRepositories) PaymentRepo() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormFinanceRepositories) PettyCashAccountRepo() finance.PettyCashAccountRepository {
	return NewGormPettyCashAccountRepository(r.tx)
}

func (r *gormFinanceRepositories) PettyCashTransactionRepo() finance.PettyCashTransactionRepository {
	return NewGormPettyCashTransactionRepository(r.tx)
}

func (r *gormFinanceRepositories) ExpenseRepo() finance.ExpenseRepository {
	return NewGormExpenseRepository(r.tx)
}

func (r *gormFinanceRepositories) CodeSequence() shared.CodeSequenceRepository {
	return NewGormCodeSequenceRepository(r.tx)
}

var (
	_ appinv.TransactionScope              = (*GormInventoryTransactionScope)(nil)
	_ appinv.TransactionalRepositories     = (*gormInventoryRepositories)(nil)
	_ appfinance.TransactionScope          = (*GormFinanceTransactionScope)(nil)
	_ appfinance.TransactionalRepositories = (*gormFinanceRepositories)(nil)
)
