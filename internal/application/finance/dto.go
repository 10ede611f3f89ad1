package finance

import (
	"time"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Invoices and bills
// ---------------------------------------------------------------------------

// DocumentResponse represents an invoice or a bill in API responses.
// Party is the customer for invoices and the supplier for bills.
type DocumentResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Type         string          `json:"type"`
	Code         string          `json:"code"`
	Party        string          `json:"party"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	BalanceDue   decimal.Decimal `json:"balance_due"`
	Status       string          `json:"status"`
	IssueDate    time.Time       `json:"issue_date"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// CreateDocumentRequest creates an invoice (Party = customer) or a bill (Party = supplier)
type CreateDocumentRequest struct {
	Party       string          `json:"party" binding:"required,max=200"`
	TotalAmount decimal.Decimal `json:"total_amount" binding:"decimal_gt0"`
	IssueDate   *time.Time      `json:"issue_date"`
	DueDate     *time.Time      `json:"due_date"`
	Notes       string          `json:"notes" binding:"max=500"`
	CreatedBy   *uuid.UUID      `json:"-"`
}

// CancelRequest carries the reason for a cancellation
type CancelRequest struct {
	Reason string     `json:"reason" binding:"required,max=500"`
	Actor  *uuid.UUID `json:"-"`
}

// DocumentListFilter represents filter options for invoice and bill listings
type DocumentListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=DRAFT SENT PARTIALLY_PAID PAID CANCELLED"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f DocumentListFilter) toDomain() (finance.DocumentFilter, error) {
	dr := shared.DateRange{From: f.From, To: f.To}
	if err := dr.Validate(); err != nil {
		return finance.DocumentFilter{}, err
	}
	base := shared.Filter{Page: f.Page, PageSize: f.PageSize, OrderBy: f.OrderBy, OrderDir: f.OrderDir, Search: f.Search}
	base.Normalize()
	return finance.DocumentFilter{Filter: base, DateRange: dr, Status: finance.SettlementStatus(f.Status)}, nil
}

// ToInvoiceResponse converts a domain invoice to a response
func ToInvoiceResponse(inv *finance.Invoice) DocumentResponse {
	return DocumentResponse{
		ID:           inv.ID,
		TenantID:     inv.TenantID,
		Type:         string(finance.DocumentTypeInvoice),
		Code:         inv.Code,
		Party:        inv.CustomerName,
		TotalAmount:  inv.TotalAmount,
		AmountPaid:   inv.AmountPaid,
		BalanceDue:   inv.BalanceDue,
		Status:       string(inv.Status),
		IssueDate:    inv.IssueDate,
		DueDate:      inv.DueDate,
		PaidAt:       inv.PaidAt,
		Notes:        inv.Notes,
		CancelReason: inv.CancelReason,
		CancelledAt:  inv.CancelledAt,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
		Version:      inv.Version,
	}
}

// ToBillResponse converts a domain bill to a response
func ToBillResponse(b *finance.Bill) DocumentResponse {
	return DocumentResponse{
		ID:           b.ID,
		TenantID:     b.TenantID,
		Type:         string(finance.DocumentTypeBill),
		Code:         b.Code,
		Party:        b.SupplierName,
		TotalAmount:  b.TotalAmount,
		AmountPaid:   b.AmountPaid,
		BalanceDue:   b.BalanceDue,
		Status:       string(b.Status),
		IssueDate:    b.IssueDate,
		DueDate:      b.DueDate,
		PaidAt:       b.PaidAt,
		Notes:        b.Notes,
		CancelReason: b.CancelReason,
		CancelledAt:  b.CancelledAt,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
		Version:      b.Version,
	}
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID               uuid.UUID       `json:"id"`
	Code             string          `json:"code"`
	InvoiceID        *uuid.UUID      `json:"invoice_id,omitempty"`
	BillID           *uuid.UUID      `json:"bill_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Method           string          `json:"method"`
	PaymentDate      time.Time       `json:"payment_date"`
	Reference        string          `json:"reference,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Status           string          `json:"status"`
	BalanceDueBefore decimal.Decimal `json:"balance_due_before"`
	BalanceDueAfter  decimal.Decimal `json:"balance_due_after"`
	CancelReason     string          `json:"cancel_reason,omitempty"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
	CancelledBy      *uuid.UUID      `json:"cancelled_by,omitempty"`
	CreatedBy        *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// PaymentResult pairs a payment with the document state it produced
type PaymentResult struct {
	Payment  PaymentResponse  `json:"payment"`
	Document DocumentResponse `json:"document"`
}

// RecordPaymentRequest records a payment against exactly one invoice or bill
type RecordPaymentRequest struct {
	InvoiceID   *uuid.UUID      `json:"invoice_id"`
	BillID      *uuid.UUID      `json:"bill_id"`
	Amount      decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	Method      string          `json:"method" binding:"omitempty,oneof=CASH BANK_TRANSFER CHEQUE CARD OTHER"`
	PaymentDate *time.Time      `json:"payment_date"`
	Reference   string          `json:"reference" binding:"max=100"`
	Notes       string          `json:"notes" binding:"max=500"`
	CreatedBy   *uuid.UUID      `json:"-"`
}

// PaymentListFilter represents filter options for payment listings
type PaymentListFilter struct {
	InvoiceID *uuid.UUID `form:"-"`
	BillID    *uuid.UUID `form:"-"`
	Status    string     `form:"status" binding:"omitempty,oneof=ACTIVE CANCELLED"`
	Method    string     `form:"method" binding:"omitempty,oneof=CASH BANK_TRANSFER CHEQUE CARD OTHER"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f PaymentListFilter) toDomain() (finance.PaymentFilter, error) {
	dr := shared.DateRange{From: f.From, To: f.To}
	if err := dr.Validate(); err != nil {
		return finance.PaymentFilter{}, err
	}
	base := shared.Filter{Page: f.Page, PageSize: f.PageSize, OrderBy: "payment_date", OrderDir: f.OrderDir}
	base.Normalize()
	return finance.PaymentFilter{
		Filter:    base,
		DateRange: dr,
		InvoiceID: f.InvoiceID,
		BillID:    f.BillID,
		Status:    finance.PaymentStatus(f.Status),
		Method:    finance.PaymentMethod(f.Method),
	}, nil
}

// ToPaymentResponse converts a domain payment to a response
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:               p.ID,
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
		CancelReason:     p.CancelReason,
		CancelledAt:      p.CancelledAt,
		CancelledBy:      p.CancelledBy,
		CreatedBy:        p.CreatedBy,
		CreatedAt:        p.CreatedAt,
	}
}

// ---------------------------------------------------------------------------
// Petty cash
// ---------------------------------------------------------------------------

// PettyCashAccountResponse represents a petty-cash account in API responses
type PettyCashAccountResponse struct {
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Custodian      string           `json:"custodian,omitempty"`
	InitialBalance decimal.Decimal  `json:"initial_balance"`
	CurrentBalance decimal.Decimal  `json:"current_balance"`
	MaxLimit       *decimal.Decimal `json:"max_limit,omitempty"`
	MinBalance     *decimal.Decimal `json:"min_balance,omitempty"`
	IsBelowMinimum bool             `json:"is_below_minimum"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Version        int              `json:"version"`
}

// PettyCashTransactionResponse represents a petty-cash transaction in API responses
type PettyCashTransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	AccountID       uuid.UUID       `json:"account_id"`
	Code            string          `json:"code"`
	TransactionType string          `json:"transaction_type"`
	Direction       string          `json:"direction"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	Description     string          `json:"description,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
	ExpenseID       *uuid.UUID      `json:"expense_id,omitempty"`
	CreatedBy       *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PettyCashTransactionResult is returned by CreatePettyCashTransaction. Warnings never block.
type PettyCashTransactionResult struct {
	Transaction PettyCashTransactionResponse `json:"transaction"`
	Account     PettyCashAccountResponse     `json:"account"`
	Warnings    []shared.Warning             `json:"warnings"`
}

// CreatePettyCashAccountRequest creates a petty-cash account
type CreatePettyCashAccountRequest struct {
	Name           string           `json:"name" binding:"required,max=100"`
	Custodian      string           `json:"custodian" binding:"max=100"`
	InitialBalance decimal.Decimal  `json:"initial_balance" binding:"decimal_gte0"`
	MaxLimit       *decimal.Decimal `json:"max_limit"`
	MinBalance     *decimal.Decimal `json:"min_balance"`
	CreatedBy      *uuid.UUID       `json:"-"`
}

// CreatePettyCashTransactionRequest records one petty-cash transaction.
// Amount is positive for REPLENISHMENT and DISBURSEMENT and a signed, non-zero delta for ADJUSTMENT.
type CreatePettyCashTransactionRequest struct {
	AccountID       uuid.UUID       `json:"account_id" binding:"required"`
	TransactionType string          `json:"transaction_type" binding:"required,oneof=REPLENISHMENT DISBURSEMENT ADJUSTMENT"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description" binding:"max=500"`
	Reference       string          `json:"reference" binding:"max=100"`
	TransactionDate *time.Time      `json:"transaction_date"`
	CreatedBy       *uuid.UUID      `json:"-"`
}

// PettyCashAccountListFilter represents filter options for account listings
type PettyCashAccountListFilter struct {
	Search          string `form:"search"`
	IncludeInactive bool   `form:"include_inactive"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string `form:"order_by"`
	OrderDir        string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PettyCashTransactionListFilter represents filter options for transaction listings
type PettyCashTransactionListFilter struct {
	AccountID       *uuid.UUID `form:"-"`
	TransactionType string     `form:"transaction_type" binding:"omitempty,oneof=REPLENISHMENT DISBURSEMENT ADJUSTMENT"`
	From            *time.Time `form:"from" time_format:"2006-01-02"`
	To              *time.Time `form:"to" time_format:"2006-01-02"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f PettyCashAccountListFilter) toDomain() finance.PettyCashAccountFilter {
	base := shared.Filter{Page: f.Page, PageSize: f.PageSize, OrderBy: f.OrderBy, OrderDir: f.OrderDir, Search: f.Search}
	base.Normalize()
	return finance.PettyCashAccountFilter{Filter: base, IncludeInactive: f.IncludeInactive}
}

func (f PettyCashTransactionListFilter) toDomain() (finance.PettyCashTransactionFilter, error) {
	dr := shared.DateRange{From: f.From, To: f.To}
	if err := dr.Validate(); err != nil {
		return finance.PettyCashTransactionFilter{}, err
	}
	base := shared.Filter{Page: f.Page, PageSize: f.PageSize, OrderBy: "transaction_date", OrderDir: f.OrderDir}
	base.Normalize()
	return finance.PettyCashTransactionFilter{
		Filter:          base,
		DateRange:       dr,
		AccountID:       f.AccountID,
		TransactionType: finance.PettyCashTransactionType(f.TransactionType),
	}, nil
}

func nullDecimalPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	v := n.Decimal
	return &v
}

func toNullDecimal(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*v)
}

// ToPettyCashAccountResponse converts a domain account to a response
func ToPettyCashAccountResponse(a *finance.PettyCashAccount) PettyCashAccountResponse {
	return PettyCashAccountResponse{
		ID:             a.ID,
		Code:           a.Code,
		Name:           a.Name,
		Custodian:      a.Custodian,
		InitialBalance: a.InitialBalance,
		CurrentBalance: a.CurrentBalance,
		MaxLimit:       nullDecimalPtr(a.MaxLimit),
		MinBalance:     nullDecimalPtr(a.MinBalance),
		IsBelowMinimum: a.IsBelowMinimum(),
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Version:        a.Version,
	}
}

// ToPettyCashTransactionResponse converts a domain transaction to a response
func ToPettyCashTransactionResponse(t *finance.PettyCashTransaction) PettyCashTransactionResponse {
	return PettyCashTransactionResponse{
		ID:              t.ID,
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
		CreatedAt:       t.CreatedAt,
	}
}

// ---------------------------------------------------------------------------
// Expenses
// ---------------------------------------------------------------------------

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID                     uuid.UUID       `json:"id"`
	Code                   string          `json:"code"`
	Category               string          `json:"category"`
	Description            string          `json:"description,omitempty"`
	Amount                 decimal.Decimal `json:"amount"`
	ExpenseDate            time.Time       `json:"expense_date"`
	Status                 string          `json:"status"`
	PettyCashAccountID     *uuid.UUID      `json:"petty_cash_account_id,omitempty"`
	PettyCashTransactionID *uuid.UUID      `json:"petty_cash_transaction_id,omitempty"`
	ApprovedBy             *uuid.UUID      `json:"approved_by,omitempty"`
	ApprovedAt             *time.Time      `json:"approved_at,omitempty"`
	RejectionReason        string          `json:"rejection_reason,omitempty"`
	PaidAt                 *time.Time      `json:"paid_at,omitempty"`
	CancelledAt            *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
	Version                int             `json:"version"`
}

// ExpenseStatusResult is returned by UpdateExpenseStatus. Transaction is set when
// a PAID transition disbursed from a petty-cash account.
type ExpenseStatusResult struct {
	Expense     ExpenseResponse               `json:"expense"`
	Transaction *PettyCashTransactionResponse `json:"petty_cash_transaction,omitempty"`
	Warnings    []shared.Warning              `json:"warnings"`
}

// CreateExpenseRequest creates a PENDING expense
type CreateExpenseRequest struct {
	Category           string          `json:"category" binding:"required,max=100"`
	Description        string          `json:"description" binding:"max=500"`
	Amount             decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	ExpenseDate        *time.Time      `json:"expense_date"`
	PettyCashAccountID *uuid.UUID      `json:"petty_cash_account_id"`
	CreatedBy          *uuid.UUID      `json:"-"`
}

// UpdateExpenseStatusRequest moves an expense to a new status
type UpdateExpenseStatusRequest struct {
	Status string     `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED PAID CANCELLED"`
	Reason string     `json:"reason" binding:"max=500"`
	Actor  *uuid.UUID `json:"-"`
}

// ExpenseListFilter represents filter options for expense listings
type ExpenseListFilter struct {
	Status             string     `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED PAID CANCELLED"`
	Category           string     `form:"category"`
	PettyCashAccountID *uuid.UUID `form:"-"`
	From               *time.Time `form:"from" time_format:"2006-01-02"`
	To                 *time.Time `form:"to" time_format:"2006-01-02"`
	Search             string     `form:"search"`
	Page               int        `form:"page" binding:"omitempty,min=1"`
	PageSize           int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderDir           string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ExpenseListFilter) toDomain() (finance.ExpenseFilter, error) {
	dr := shared.DateRange{From: f.From, To: f.To}
	if err := dr.Validate(); err != nil {
		return finance.ExpenseFilter{}, err
	}
	base := shared.Filter{Page: f.Page, PageSize: f.PageSize, OrderBy: "expense_date", OrderDir: f.OrderDir, Search: f.Search}
	base.Normalize()
	return finance.ExpenseFilter{
		Filter:             base,
		DateRange:          dr,
		Status:             finance.ExpenseStatus(f.Status),
		Category:           f.Category,
		PettyCashAccountID: f.PettyCashAccountID,
	}, nil
}

// ToExpenseResponse converts a domain expense to a response
func ToExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:                     e.ID,
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
		CreatedAt:              e.CreatedAt,
		UpdatedAt:              e.UpdatedAt,
		Version:                e.Version,
	}
}
