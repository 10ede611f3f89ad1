package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PettyCashAccountCode is the code series for petty-cash accounts (PCA001)
var PettyCashAccountCode = shared.CodeSpec{Prefix: "PCA", Width: 3}

// AggregateTypePettyCashAccount names the aggregate in published events
const AggregateTypePettyCashAccount = "PettyCashAccount"

// WarningCodeLowBalance is returned when a transaction leaves the balance under MinBalance
const WarningCodeLowBalance = "LOW_BALANCE"

// PettyCashAccount is a cash float held by a custodian.
// CurrentBalance always equals InitialBalance plus the signed amounts of its transactions.
type PettyCashAccount struct {
	shared.TenantAggregateRoot
	Code           string
	Name           string
	Custodian      string
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	MaxLimit       decimal.NullDecimal
	MinBalance     decimal.NullDecimal
	IsActive       bool
}

// NewPettyCashAccount creates an active account funded with its initial balance
func NewPettyCashAccount(tenantID uuid.UUID, code, name, custodian string, initial decimal.Decimal, maxLimit, minBalance decimal.NullDecimal) (*PettyCashAccount, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("INVALID_NAME", "name", "Account name is required")
	}
	if initial.IsNegative() {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "initial_balance", "Initial balance cannot be negative").
			WithDetail("value", initial.String())
	}
	if maxLimit.Valid {
		if !maxLimit.Decimal.IsPositive() {
			return nil, shared.NewValidationError("INVALID_LIMIT", "max_limit", "Maximum limit must be greater than zero")
		}
		if initial.GreaterThan(maxLimit.Decimal) {
			return nil, shared.NewDomainError(shared.KindLimitExceeded, "INITIAL_EXCEEDS_LIMIT",
				"Initial balance exceeds the maximum limit").
				WithDetail("field", "initial_balance").
				WithDetail("max_limit", maxLimit.Decimal.String())
		}
	}
	if minBalance.Valid {
		if minBalance.Decimal.IsNegative() {
			return nil, shared.NewValidationError("INVALID_LIMIT", "min_balance", "Minimum balance cannot be negative")
		}
		if maxLimit.Valid && minBalance.Decimal.GreaterThan(maxLimit.Decimal) {
			return nil, shared.NewValidationError("INVALID_LIMIT", "min_balance", "Minimum balance cannot exceed the maximum limit")
		}
	}

	return &PettyCashAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                strings.TrimSpace(name),
		Custodian:           strings.TrimSpace(custodian),
		InitialBalance:      initial,
		CurrentBalance:      initial,
		MaxLimit:            maxLimit,
		MinBalance:          minBalance,
		IsActive:            true,
	}, nil
}

// TransactionDetails carries the optional metadata of a petty-cash transaction
type TransactionDetails struct {
	Description     string
	Reference       string
	TransactionDate time.Time
	ExpenseID       *uuid.UUID
	CreatedBy       *uuid.UUID
}

// RecordTransaction validates and applies one transaction. amount is a positive
// magnitude for REPLENISHMENT and DISBURSEMENT and a signed, non-zero delta for ADJUSTMENT.
// A resulting balance below MinBalance succeeds and is reported as a warning.
func (a *PettyCashAccount) RecordTransaction(code string, txType PettyCashTransactionType, amount decimal.Decimal, details TransactionDetails) (*PettyCashTransaction, []shared.Warning, error) {
	if !a.IsActive {
		return nil, nil, shared.NewNotFoundError("petty cash account", a.ID)
	}
	delta, err := txType.Delta(amount)
	if err != nil {
		return nil, nil, err
	}

	before := a.CurrentBalance
	after := before.Add(delta)
	if after.IsNegative() {
		return nil, nil, shared.NewDomainError(shared.KindInsufficientBalance, "INSUFFICIENT_BALANCE",
			fmt.Sprintf("Insufficient balance in %s: available %s, requested %s", a.Code, before.String(), delta.Abs().String())).
			WithDetail("field", "amount").
			WithDetail("available", before.String()).
			WithDetail("requested", delta.Abs().String())
	}
	if txType == PettyCashTransactionTypeReplenishment && a.MaxLimit.Valid && after.GreaterThan(a.MaxLimit.Decimal) {
		return nil, nil, shared.NewDomainError(shared.KindLimitExceeded, "LIMIT_EXCEEDED",
			fmt.Sprintf("Replenishment would take %s to %s, above its limit of %s", a.Code, after.String(), a.MaxLimit.Decimal.String())).
			WithDetail("field", "amount").
			WithDetail("max_limit", a.MaxLimit.Decimal.String()).
			WithDetail("resulting_balance", after.String())
	}

	txDate := details.TransactionDate
	if txDate.IsZero() {
		txDate = time.Now()
	}
	direction := DirectionIn
	if delta.IsNegative() {
		direction = DirectionOut
	}

	tx := &PettyCashTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        a.TenantID,
		AccountID:       a.ID,
		Code:            code,
		TransactionType: txType,
		Direction:       direction,
		Amount:          delta.Abs(),
		BalanceBefore:   before,
		BalanceAfter:    after,
		Description:     strings.TrimSpace(details.Description),
		Reference:       details.Reference,
		TransactionDate: txDate,
		ExpenseID:       details.ExpenseID,
		CreatedBy:       details.CreatedBy,
	}

	a.CurrentBalance = after
	a.Touch()
	a.IncrementVersion()
	a.AddDomainEvent(NewPettyCashTransactionRecordedEvent(a, tx))

	var warnings []shared.Warning
	if a.IsBelowMinimum() {
		warnings = append(warnings, shared.Warning{
			Code:    WarningCodeLowBalance,
			Message: fmt.Sprintf("Balance of %s is %s, below the minimum of %s", a.Code, after.String(), a.MinBalance.Decimal.String()),
			Details: map[string]any{
				"current_balance": after.String(),
				"min_balance":     a.MinBalance.Decimal.String(),
			},
		})
		a.AddDomainEvent(NewPettyCashBelowMinimumEvent(a))
	}

	return tx, warnings, nil
}

// IsBelowMinimum reports whether a configured minimum is not met
func (a *PettyCashAccount) IsBelowMinimum() bool {
	return a.MinBalance.Valid && a.CurrentBalance.LessThan(a.MinBalance.Decimal)
}

// Deactivate soft-deletes the account; transactions keep referencing it
func (a *PettyCashAccount) Deactivate() {
	if !a.IsActive {
		return
	}
	a.IsActive = false
	a.Touch()
	a.IncrementVersion()
}
