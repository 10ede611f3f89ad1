package finance

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PettyCashTransactionCode is the code series for petty-cash transactions (PCT0001)
var PettyCashTransactionCode = shared.CodeSpec{Prefix: "PCT", Width: 4}

// PettyCashTransactionType represents the kind of petty-cash transaction
type PettyCashTransactionType string

const (
	// PettyCashTransactionTypeReplenishment tops the float up; bounded by MaxLimit
	PettyCashTransactionTypeReplenishment PettyCashTransactionType = "REPLENISHMENT"
	// PettyCashTransactionTypeDisbursement pays cash out
	PettyCashTransactionTypeDisbursement PettyCashTransactionType = "DISBURSEMENT"
	// PettyCashTransactionTypeAdjustment corrects the balance by a signed delta.
	// Unlike a stock ADJUSTMENT it is relative, not an absolute level.
	PettyCashTransactionTypeAdjustment PettyCashTransactionType = "ADJUSTMENT"
)

// IsValid returns true if the transaction type is known
func (t PettyCashTransactionType) IsValid() bool {
	switch t {
	case PettyCashTransactionTypeReplenishment, PettyCashTransactionTypeDisbursement, PettyCashTransactionTypeAdjustment:
		return true
	}
	return false
}

// AllPettyCashTransactionTypes lists every type in display order
func AllPettyCashTransactionTypes() []PettyCashTransactionType {
	return []PettyCashTransactionType{
		PettyCashTransactionTypeReplenishment,
		PettyCashTransactionTypeDisbursement,
		PettyCashTransactionTypeAdjustment,
	}
}

// Delta converts a requested amount into the signed balance change
func (t PettyCashTransactionType) Delta(amount decimal.Decimal) (decimal.Decimal, error) {
	switch t {
	case PettyCashTransactionTypeReplenishment, PettyCashTransactionTypeDisbursement:
		if !amount.IsPositive() {
			return decimal.Zero, shared.NewValidationError("INVALID_AMOUNT", "amount", "Amount must be greater than zero").
				WithDetail("value", amount.String())
		}
		if t == PettyCashTransactionTypeDisbursement {
			return amount.Neg(), nil
		}
		return amount, nil
	case PettyCashTransactionTypeAdjustment:
		if amount.IsZero() {
			return decimal.Zero, shared.NewValidationError("INVALID_AMOUNT", "amount", "Adjustment amount cannot be zero")
		}
		return amount, nil
	default:
		return decimal.Zero, shared.NewValidationError("INVALID_TRANSACTION_TYPE", "transaction_type", "Unknown transaction type").
			WithDetail("value", string(t))
	}
}

// Direction is the sign of a stored petty-cash amount
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// PettyCashTransaction is an immutable petty-cash ledger line.
// Amount is stored positive; Direction carries the sign.
type PettyCashTransaction struct {
	shared.BaseEntity
	TenantID        uuid.UUID
	AccountID       uuid.UUID
	Code            string
	TransactionType PettyCashTransactionType
	Direction       Direction
	Amount          decimal.Decimal
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	Description     string
	Reference       string
	TransactionDate time.Time
	ExpenseID       *uuid.UUID
	CreatedBy       *uuid.UUID
}

// SignedAmount returns the effect on the account balance
func (t *PettyCashTransaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionOut {
		return t.Amount.Neg()
	}
	return t.Amount
}
