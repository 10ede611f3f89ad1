package finance

import (
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCode is the code series for expenses (EXP0001)
var ExpenseCode = shared.CodeSpec{Prefix: "EXP", Width: 4}

// AggregateTypeExpense names the aggregate in published events
const AggregateTypeExpense = "Expense"

// ExpenseStatus represents the approval lifecycle of an expense
type ExpenseStatus string

const (
	ExpenseStatusPending   ExpenseStatus = "PENDING"
	ExpenseStatusApproved  ExpenseStatus = "APPROVED"
	ExpenseStatusRejected  ExpenseStatus = "REJECTED"
	ExpenseStatusPaid      ExpenseStatus = "PAID"
	ExpenseStatusCancelled ExpenseStatus = "CANCELLED"
)

var expenseTransitions = map[ExpenseStatus][]ExpenseStatus{
	ExpenseStatusPending:  {ExpenseStatusApproved, ExpenseStatusRejected, ExpenseStatusCancelled},
	ExpenseStatusApproved: {ExpenseStatusPaid, ExpenseStatusCancelled},
	ExpenseStatusRejected: {ExpenseStatusPending},
}

// IsValid returns true if the status is known
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseStatusPending, ExpenseStatusApproved, ExpenseStatusRejected, ExpenseStatusPaid, ExpenseStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves this status
func (s ExpenseStatus) IsTerminal() bool {
	return len(expenseTransitions[s]) == 0
}

// CanTransitionTo reports whether target is reachable from s in one step
func (s ExpenseStatus) CanTransitionTo(target ExpenseStatus) bool {
	for _, next := range expenseTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// AllExpenseStatuses lists every status in lifecycle order
func AllExpenseStatuses() []ExpenseStatus {
	return []ExpenseStatus{
		ExpenseStatusPending,
		ExpenseStatusApproved,
		ExpenseStatusRejected,
		ExpenseStatusPaid,
		ExpenseStatusCancelled,
	}
}

// ValidateExpenseTransition is the pure check run before anything is written
func ValidateExpenseTransition(current, target ExpenseStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", "status", "Unknown expense status").
			WithDetail("value", string(target))
	}
	if !current.CanTransitionTo(target) {
		return shared.NewIllegalTransitionError("expense", string(current), string(target))
	}
	return nil
}

// Expense is a spending claim, optionally settled from a petty-cash account
type Expense struct {
	shared.TenantAggregateRoot
	Code                   string
	Category               string
	Description            string
	Amount                 decimal.Decimal
	ExpenseDate            time.Time
	Status                 ExpenseStatus
	PettyCashAccountID     *uuid.UUID
	PettyCashTransactionID *uuid.UUID
	ApprovedBy             *uuid.UUID
	ApprovedAt             *time.Time
	RejectionReason        string
	PaidAt                 *time.Time
	CancelledAt            *time.Time
}

// NewExpense creates a PENDING expense
func NewExpense(tenantID uuid.UUID, code, category, description string, amount decimal.Decimal, expenseDate time.Time, pettyCashAccountID *uuid.UUID) (*Expense, error) {
	if strings.TrimSpace(category) == "" {
		return nil, shared.NewValidationError("INVALID_CATEGORY", "category", "Category is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "amount", "Amount must be greater than zero").
			WithDetail("value", amount.String())
	}
	if expenseDate.IsZero() {
		expenseDate = time.Now()
	}
	if pettyCashAccountID != nil && *pettyCashAccountID == uuid.Nil {
		pettyCashAccountID = nil
	}
	return &Expense{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Category:            strings.TrimSpace(category),
		Description:         strings.TrimSpace(description),
		Amount:              amount,
		ExpenseDate:         expenseDate,
		Status:              ExpenseStatusPending,
		PettyCashAccountID:  pettyCashAccountID,
	}, nil
}

// TransitionTo moves the expense to target. REJECTED requires a reason.
func (e *Expense) TransitionTo(target ExpenseStatus, actor *uuid.UUID, reason string) error {
	if err := ValidateExpenseTransition(e.Status, target); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if target == ExpenseStatusRejected && reason == "" {
		return shared.NewValidationError("REASON_REQUIRED", "reason", "A reason is required to reject an expense")
	}

	now := time.Now()
	from := e.Status
	switch target {
	case ExpenseStatusApproved:
		e.ApprovedBy = actor
		e.ApprovedAt = &now
	case ExpenseStatusRejected:
		e.RejectionReason = reason
	case ExpenseStatusPending:
		e.RejectionReason = ""
		e.ApprovedBy = nil
		e.ApprovedAt = nil
	case ExpenseStatusPaid:
		e.PaidAt = &now
	case ExpenseStatusCancelled:
		e.CancelledAt = &now
	}
	e.Status = target
	e.Touch()
	e.IncrementVersion()
	e.AddDomainEvent(NewExpenseStatusChangedEvent(e, from, target, reason))
	return nil
}

// SettleFromPettyCash marks an APPROVED expense PAID and disburses its amount from
// the linked account. Either both aggregates change or neither does.
func SettleFromPettyCash(e *Expense, account *PettyCashAccount, txCode string, actor *uuid.UUID) (*PettyCashTransaction, []shared.Warning, error) {
	if err := ValidateExpenseTransition(e.Status, ExpenseStatusPaid); err != nil {
		return nil, nil, err
	}
	if e.PettyCashAccountID == nil || *e.PettyCashAccountID != account.ID || e.TenantID != account.TenantID {
		return nil, nil, shared.NewValidationError("PETTY_CASH_ACCOUNT_MISMATCH", "petty_cash_account_id",
			"Expense is not linked to this petty cash account")
	}

	tx, warnings, err := account.RecordTransaction(txCode, PettyCashTransactionTypeDisbursement, e.Amount, TransactionDetails{
		Description: "Expense " + e.Code + ": " + e.Category,
		Reference:   e.Code,
		ExpenseID:   &e.ID,
		CreatedBy:   actor,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := e.TransitionTo(ExpenseStatusPaid, actor, ""); err != nil {
		return nil, nil, err
	}
	e.PettyCashTransactionID = &tx.ID
	return tx, warnings, nil
}
