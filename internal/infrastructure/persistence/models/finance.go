package models

import (
	"time"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementColumns are the balance columns shared by invoices and bills
type SettlementColumns struct {
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmountPaid  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BalanceDue  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	PaidAt      *time.Time
}

func settlementColumns(s finance.Settlement) SettlementColumns {
	return SettlementColumns{
		TotalAmount: s.TotalAmount,
		AmountPaid:  s.AmountPaid,
		BalanceDue:  s.BalanceDue,
		Status:      string(s.Status),
		PaidAt:      s.PaidAt,
	}
}

func (c SettlementColumns) toDomain() finance.Settlement {
	return finance.Settlement{
		TotalAmount: c.TotalAmount,
		AmountPaid:  c.AmountPaid,
		BalanceDue:  c.BalanceDue,
		Status:      finance.SettlementStatus(c.Status),
		PaidAt:      c.PaidAt,
	}
}

// InvoiceModel is the persistence model for receivable invoices
type InvoiceModel struct {
	TenantAggregateModel
	SettlementColumns
	Code         string    `gorm:"type:varchar(20);not null"`
	CustomerName string    `gorm:"type:varchar(200);not null"`
	IssueDate    time.Time `gorm:"not null;index"`
	DueDate      *time.Time
	Notes        string     `gorm:"type:text"`
	CancelReason string     `gorm:"type:varchar(500)"`
	CancelledAt  *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the model to a domain Invoice
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	return &finance.Invoice{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Settlement:          m.SettlementColumns.toDomain(),
		Code:                m.Code,
		CustomerName:        m.CustomerName,
		IssueDate:           m.IssueDate,
		DueDate:             m.DueDate,
		Notes:               m.Notes,
		CancelReason:        m.CancelReason,
		CancelledAt:         m.CancelledAt,
	}
}

// InvoiceModelFromDomain builds a model from a domain invoice
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		SettlementColumns: settlementColumns(inv.Settlement),
		Code:              inv.Code,
		CustomerName:      inv.CustomerName,
		IssueDate:         inv.IssueDate,
		DueDate:           inv.DueDate,
		Notes:             inv.Notes,
		CancelReason:      inv.CancelReason,
		CancelledAt:       inv.CancelledAt,
	}
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	return m
}

// BillModel is the persistence model for payable bills
type BillModel struct {
	TenantAggregateModel
	SettlementColumns
	Code         string    `gorm:"type:varchar(20);not null"`
	SupplierName string    `gorm:"type:varchar(200);not null"`
	IssueDate    time.Time `gorm:"not null;index"`
	DueDate      *time.Time
	Notes        string     `gorm:"type:text"`
	CancelReason string     `gorm:"type:varchar(500)"`
	CancelledAt  *time.Time
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the model to a domain Bill
func (m *BillModel) ToDomain() *finance.Bill {
	return &finance.Bill{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Settlement:          m.SettlementColumns.toDomain(),
		Code:                m.Code,
		SupplierName:        m.SupplierName,
		IssueDate:           m.IssueDate,
		DueDate:             m.DueDate,
		Notes:               m.Notes,
		CancelReason:        m.CancelReason,
		CancelledAt:         m.CancelledAt,
	}
}

// BillModelFromDomain builds a model from a domain bill
func BillModelFromDomain(b *finance.Bill) *BillModel {
	m := &BillModel{
		SettlementColumns: settlementColumns(b.Settlement),
		Code:              b.Code,
		SupplierName:      b.SupplierName,
		IssueDate:         b.IssueDate,
		DueDate:           b.DueDate,
		Notes:             b.Notes,
		CancelReason:      b.CancelReason,
		CancelledAt:       b.CancelledAt,
	}
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	return m
}

// PaymentModel is one row of the payment ledger. Exactly one of InvoiceID and
// BillID is set.
type PaymentModel struct {
	TenantAggregateModel
	Code             string          `gorm:"type:varchar(20);not null"`
	InvoiceID        *uuid.UUID      `gorm:"type:uuid;index"`
	BillID           *uuid.UUID      `gorm:"type:uuid;index"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method           string          `gorm:"type:varchar(20);not null"`
	PaymentDate      time.Time       `gorm:"not null;index"`
	Reference        string          `gorm:"type:varchar(100)"`
	Notes            string          `gorm:"type:text"`
	Status           string          `gorm:"type:varchar(20);not null"`
	BalanceDueBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceDueAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CancelledAt      *time.Time
	CancelledBy      *uuid.UUID `gorm:"type:uuid"`
	CancelReason     string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model to a domain Payment
func (m *PaymentModel) ToDomain() *finance.Payment {
	return &finance.Payment{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		InvoiceID:           m.InvoiceID,
		BillID:              m.BillID,
		Amount:              m.Amount,
		Method:              finance.PaymentMethod(m.Method),
		PaymentDate:         m.PaymentDate,
		Reference:           m.Reference,
		Notes:               m.Notes,
		Status:              finance.PaymentStatus(m.Status),
		BalanceDueBefore:    m.BalanceDueBefore,
		BalanceDueAfter:     m.BalanceDueAfter,
		CancelledAt:         m.CancelledAt,
		CancelledBy:         m.CancelledBy,
		CancelReason:        m.CancelReason,
	}
}

// PaymentModelFromDomain builds a model from a domain payment
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	m := &PaymentModel{
		Code:             p.Code,
		InvoiceID:        p.InvoiceID,
		BillID:           p.BillID,
		Amount:           p.Amount,
		Method:           string(p.Method),
		PaymentDate:      p.PaymentDate,
		Reference:        p.Reference,
		Notes:            p.Notes,
		Status:           string(p.Status),
		BalanceDueBefore: p.BalanceDueBefore,
		BalanceDueAfter:  p.BalanceDueAfter,
		CancelledAt:      p.CancelledAt,
		CancelledBy:      p.CancelledBy,
		CancelReason:     p.CancelReason,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// PettyCashAccountModel is the persistence model for petty cash floats
type PettyCashAccountModel struct {
	TenantAggregateModel
	Code           string              `gorm:"type:varchar(20);not null"`
	Name           string              `gorm:"type:varchar(200);not null"`
	Custodian      string              `gorm:"type:varchar(200)"`
	InitialBalance decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentBalance decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	MaxLimit       decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	MinBalance     decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	IsActive       bool                `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PettyCashAccountModel) TableName() string {
	return "petty_cash_accounts"
}

// ToDomain converts the model to a domain PettyCashAccount
func (m *PettyCashAccountModel) ToDomain() *finance.PettyCashAccount {
	return &finance.PettyCashAccount{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Custodian:           m.Custodian,
		InitialBalance:      m.InitialBalance,
		CurrentBalance:      m.CurrentBalance,
		MaxLimit:            m.MaxLimit,
		MinBalance:          m.MinBalance,
		IsActive:            m.IsActive,
	}
}

// PettyCashAccountModelFromDomain builds a model from a domain account
func PettyCashAccountModelFromDomain(a *finance.PettyCashAccount) *PettyCashAccountModel {
	m := &PettyCashAccountModel{
		Code:           a.Code,
		Name:           a.Name,
		Custodian:      a.Custodian,
		InitialBalance: a.InitialBalance,
		CurrentBalance: a.CurrentBalance,
		MaxLimit:       a.MaxLimit,
		MinBalance:     a.MinBalance,
		IsActive:       a.IsActive,
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	return m
}

// PettyCashTransactionModel is one row of the petty cash ledger
type PettyCashTransactionModel struct {
	BaseModel
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code            string          `gorm:"type:varchar(20);not null"`
	TransactionType string          `gorm:"type:varchar(20);not null"`
	Direction       string          `gorm:"type:varchar(3);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description     string          `gorm:"type:varchar(500)"`
	Reference       string          `gorm:"type:varchar(100)"`
	TransactionDate time.Time       `gorm:"not null;index"`
	ExpenseID       *uuid.UUID      `gorm:"type:uuid"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PettyCashTransactionModel) TableName() string {
	return "petty_cash_transactions"
}

// ToDomain converts the model to a domain PettyCashTransaction
func (m *PettyCashTransactionModel) ToDomain() *finance.PettyCashTransaction {
	return &finance.PettyCashTransaction{
		BaseEntity:      m.toEntity(),
		TenantID:        m.TenantID,
		AccountID:       m.AccountID,
		Code:            m.Code,
		TransactionType: finance.PettyCashTransactionType(m.TransactionType),
		Direction:       finance.Direction(m.Direction),
		Amount:          m.Amount,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		Description:     m.Description,
		Reference:       m.Reference,
		TransactionDate: m.TransactionDate,
		ExpenseID:       m.ExpenseID,
		CreatedBy:       m.CreatedBy,
	}
}

// PettyCashTransactionModelFromDomain builds a model from a domain transaction
func PettyCashTransactionModelFromDomain(t *finance.PettyCashTransaction) *PettyCashTransactionModel {
	m := &PettyCashTransactionModel{
		TenantID:        t.TenantID,
		AccountID:       t.AccountID,
		Code:            t.Code,
		TransactionType: string(t.TransactionType),
		Direction:       string(t.Direction),
		Amount:          t.Amount,
		BalanceBefore:   t.BalanceBefore,
		BalanceAfter:    t.BalanceAfter,
		Description:     t.Description,
		Reference:       t.Reference,
		TransactionDate: t.TransactionDate,
		ExpenseID:       t.ExpenseID,
		CreatedBy:       t.CreatedBy,
	}
	m.fromEntity(t.BaseEntity)
	return m
}

// ExpenseModel is the persistence model for expenses
type ExpenseModel struct {
	TenantAggregateModel
	Code                   string          `gorm:"type:varchar(20);not null"`
	Category               string          `gorm:"type:varchar(100);not null;index"`
	Description            string          `gorm:"type:varchar(500)"`
	Amount                 decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpenseDate            time.Time       `gorm:"not null;index"`
	Status                 string          `gorm:"type:varchar(20);not null;index"`
	PettyCashAccountID     *uuid.UUID      `gorm:"type:uuid;index"`
	PettyCashTransactionID *uuid.UUID      `gorm:"type:uuid"`
	ApprovedBy             *uuid.UUID      `gorm:"type:uuid"`
	ApprovedAt             *time.Time
	RejectionReason        string `gorm:"type:varchar(500)"`
	PaidAt                 *time.Time
	CancelledAt            *time.Time
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the model to a domain Expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		TenantAggregateRoot:    m.ToDomainTenantAggregateRoot(),
		Code:                   m.Code,
		Category:               m.Category,
		Description:            m.Description,
		Amount:                 m.Amount,
		ExpenseDate:            m.ExpenseDate,
		Status:                 finance.ExpenseStatus(m.Status),
		PettyCashAccountID:     m.PettyCashAccountID,
		PettyCashTransactionID: m.PettyCashTransactionID,
		ApprovedBy:             m.ApprovedBy,
		ApprovedAt:             m.ApprovedAt,
		RejectionReason:        m.RejectionReason,
		PaidAt:                 m.PaidAt,
		CancelledAt:            m.CancelledAt,
	}
}

// ExpenseModelFromDomain builds a model from a domain expense
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{
		Code:                   e.Code,
		Category:               e.Category,
		Description:            e.Description,
		Amount:                 e.Amount,
		ExpenseDate:            e.ExpenseDate,
		Status:                 string(e.Status),
		PettyCashAccountID:     e.PettyCashAccountID,
		PettyCashTransactionID: e.PettyCashTransactionID,
		ApprovedBy:             e.ApprovedBy,
		ApprovedAt:             e.ApprovedAt,
		RejectionReason:        e.RejectionReason,
		PaidAt:                 e.PaidAt,
		CancelledAt:            e.CancelledAt,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	return m
}

// AllModels lists every ledger table model, in dependency order.
func AllModels() []any {
	return []any{
		&CodeSequenceModel{},
		&InventoryItemModel{},
		&StockMovementModel{},
		&InvoiceModel{},
		&BillModel{},
		&PaymentModel{},
		&PettyCashAccountModel{},
		&PettyCashTransactionModel{},
		&ExpenseModel{},
	}
}
