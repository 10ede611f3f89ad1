package finance

import (
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeSettlementStatusChanged      = "SettlementStatusChanged"
	EventTypePaymentRecorded              = "PaymentRecorded"
	EventTypePaymentCancelled             = "PaymentCancelled"
	EventTypePettyCashTransactionRecorded = "PettyCashTransactionRecorded"
	EventTypePettyCashBelowMinimum        = "PettyCashBelowMinimum"
	EventTypeExpenseStatusChanged         = "ExpenseStatusChanged"
)

// SettlementStatusChangedEvent is raised when an invoice or bill changes status
type SettlementStatusChangedEvent struct {
	shared.BaseDomainEvent
	DocumentType DocumentType     `json:"document_type"`
	DocumentCode string           `json:"document_code"`
	FromStatus   SettlementStatus `json:"from_status"`
	ToStatus     SettlementStatus `json:"to_status"`
}

// NewSettlementStatusChangedEvent creates a new SettlementStatusChangedEvent
func NewSettlementStatusChangedEvent(aggType string, tenantID uuid.UUID, ref DocumentRef, from, to SettlementStatus) *SettlementStatusChangedEvent {
	return &SettlementStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSettlementStatusChanged, aggType, ref.ID, tenantID),
		DocumentType:    ref.Type,
		DocumentCode:    ref.Code,
		FromStatus:      from,
		ToStatus:        to,
	}
}

// PaymentRecordedEvent is raised when a payment is applied to an invoice or bill
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentCode      string           `json:"payment_code"`
	DocumentType     DocumentType     `json:"document_type"`
	DocumentID       uuid.UUID        `json:"document_id"`
	DocumentCode     string           `json:"document_code"`
	Amount           decimal.Decimal  `json:"amount"`
	Method           PaymentMethod    `json:"method"`
	BalanceDueBefore decimal.Decimal  `json:"balance_due_before"`
	BalanceDueAfter  decimal.Decimal  `json:"balance_due_after"`
	DocumentStatus   SettlementStatus `json:"document_status"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment, ref DocumentRef, change SettlementChange) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypePayment, p.ID, p.TenantID),
		PaymentCode:      p.Code,
		DocumentType:     ref.Type,
		DocumentID:       ref.ID,
		DocumentCode:     ref.Code,
		Amount:           p.Amount,
		Method:           p.Method,
		BalanceDueBefore: change.BalanceDueBefore,
		BalanceDueAfter:  change.BalanceDueAfter,
		DocumentStatus:   change.StatusAfter,
	}
}

// PaymentCancelledEvent is raised when a payment is reversed
type PaymentCancelledEvent struct {
	shared.BaseDomainEvent
	PaymentCode      string           `json:"payment_code"`
	DocumentType     DocumentType     `json:"document_type"`
	DocumentID       uuid.UUID        `json:"document_id"`
	Amount           decimal.Decimal  `json:"amount"`
	Reason           string           `json:"reason"`
	BalanceDueBefore decimal.Decimal  `json:"balance_due_before"`
	BalanceDueAfter  decimal.Decimal  `json:"balance_due_after"`
	DocumentStatus   SettlementStatus `json:"document_status"`
}

// NewPaymentCancelledEvent creates a new PaymentCancelledEvent
func NewPaymentCancelledEvent(p *Payment, ref DocumentRef, change SettlementChange) *PaymentCancelledEvent {
	return &PaymentCancelledEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePaymentCancelled, AggregateTypePayment, p.ID, p.TenantID),
		PaymentCode:      p.Code,
		DocumentType:     ref.Type,
		DocumentID:       ref.ID,
		Amount:           p.Amount,
		Reason:           p.CancelReason,
		BalanceDueBefore: change.BalanceDueBefore,
		BalanceDueAfter:  change.BalanceDueAfter,
		DocumentStatus:   change.StatusAfter,
	}
}

// PettyCashTransactionRecordedEvent is raised for every committed petty-cash transaction
type PettyCashTransactionRecordedEvent struct {
	shared.BaseDomainEvent
	AccountCode     string                   `json:"account_code"`
	TransactionID   uuid.UUID                `json:"transaction_id"`
	TransactionCode string                   `json:"transaction_code"`
	TransactionType PettyCashTransactionType `json:"transaction_type"`
	Direction       Direction                `json:"direction"`
	Amount          decimal.Decimal          `json:"amount"`
	BalanceBefore   decimal.Decimal          `json:"balance_before"`
	BalanceAfter    decimal.Decimal          `json:"balance_after"`
}

// NewPettyCashTransactionRecordedEvent creates a new PettyCashTransactionRecordedEvent
func NewPettyCashTransactionRecordedEvent(a *PettyCashAccount, tx *PettyCashTransaction) *PettyCashTransactionRecordedEvent {
	return &PettyCashTransactionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePettyCashTransactionRecorded, AggregateTypePettyCashAccount, a.ID, a.TenantID),
		AccountCode:     a.Code,
		TransactionID:   tx.ID,
		TransactionCode: tx.Code,
		TransactionType: tx.TransactionType,
		Direction:       tx.Direction,
		Amount:          tx.Amount,
		BalanceBefore:   tx.BalanceBefore,
		BalanceAfter:    tx.BalanceAfter,
	}
}

// PettyCashBelowMinimumEvent is raised when a transaction leaves the balance under MinBalance
type PettyCashBelowMinimumEvent struct {
	shared.BaseDomainEvent
	AccountCode    string          `json:"account_code"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	MinBalance     decimal.Decimal `json:"min_balance"`
}

// NewPettyCashBelowMinimumEvent creates a new PettyCashBelowMinimumEvent
func NewPettyCashBelowMinimumEvent(a *PettyCashAccount) *PettyCashBelowMinimumEvent {
	return &PettyCashBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePettyCashBelowMinimum, AggregateTypePettyCashAccount, a.ID, a.TenantID),
		AccountCode:     a.Code,
		CurrentBalance:  a.CurrentBalance,
		MinBalance:      a.MinBalance.Decimal,
	}
}

// ExpenseStatusChangedEvent is raised on every expense transition
type ExpenseStatusChangedEvent struct {
	shared.BaseDomainEvent
	ExpenseCode string          `json:"expense_code"`
	FromStatus  ExpenseStatus   `json:"from_status"`
	ToStatus    ExpenseStatus   `json:"to_status"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason,omitempty"`
}

// NewExpenseStatusChangedEvent creates a new ExpenseStatusChangedEvent
func NewExpenseStatusChangedEvent(e *Expense, from, to ExpenseStatus, reason string) *ExpenseStatusChangedEvent {
	return &ExpenseStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseStatusChanged, AggregateTypeExpense, e.ID, e.TenantID),
		ExpenseCode:     e.Code,
		FromStatus:      from,
		ToStatus:        to,
		Amount:          e.Amount,
		Reason:          reason,
	}
}
