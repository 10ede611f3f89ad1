package finance

import (
	"context"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentFilter narrows invoice and bill listings
type DocumentFilter struct {
	shared.Filter
	shared.DateRange
	Status SettlementStatus
}

// PaymentFilter narrows payment listings
type PaymentFilter struct {
	shared.Filter
	shared.DateRange
	InvoiceID *uuid.UUID
	BillID    *uuid.UUID
	Status    PaymentStatus
	Method    PaymentMethod
}

// PettyCashAccountFilter narrows account listings
type PettyCashAccountFilter struct {
	shared.Filter
	IncludeInactive bool
}

// PettyCashTransactionFilter narrows transaction listings
type PettyCashTransactionFilter struct {
	shared.Filter
	shared.DateRange
	AccountID       *uuid.UUID
	TransactionType PettyCashTransactionType
}

// ExpenseFilter narrows expense listings
type ExpenseFilter struct {
	shared.Filter
	shared.DateRange
	Status             ExpenseStatus
	Category           string
	PettyCashAccountID *uuid.UUID
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	// FindByIDForUpdate holds a row lock until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter DocumentFilter) ([]Invoice, int64, error)
	Create(ctx context.Context, invoice *Invoice) error
	Save(ctx context.Context, invoice *Invoice) error
}

// BillRepository defines the interface for bill persistence
type BillRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Bill, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Bill, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter DocumentFilter) ([]Bill, int64, error)
	Create(ctx context.Context, bill *Bill) error
	Save(ctx context.Context, bill *Bill) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PaymentFilter) ([]Payment, int64, error)
	Create(ctx context.Context, payment *Payment) error
	// Save persists a cancellation; amounts and targets are never rewritten
	Save(ctx context.Context, payment *Payment) error
}

// PettyCashAccountRepository defines the interface for petty-cash account persistence
type PettyCashAccountRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PettyCashAccount, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*PettyCashAccount, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PettyCashAccountFilter) ([]PettyCashAccount, int64, error)
	Create(ctx context.Context, account *PettyCashAccount) error
	Save(ctx context.Context, account *PettyCashAccount) error
}

// PettyCashTransactionRepository persists petty-cash transactions. Transactions are append-only.
type PettyCashTransactionRepository interface {
	Create(ctx context.Context, tx *PettyCashTransaction) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PettyCashTransaction, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PettyCashTransactionFilter) ([]PettyCashTransaction, int64, error)
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Expense, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Expense, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ExpenseFilter) ([]Expense, int64, error)
	Create(ctx context.Context, expense *Expense) error
	Save(ctx context.Context, expense *Expense) error
}
