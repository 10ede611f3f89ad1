package inventory

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementCode is the code series for stock movements (STM0001)
var MovementCode = shared.CodeSpec{Prefix: "STM", Width: 4}

// MovementType represents the kind of stock movement
type MovementType string

const (
	// MovementTypeReceipt adds the quantity to current stock (purchase receiving, production output)
	MovementTypeReceipt MovementType = "RECEIPT"
	// MovementTypeIssue subtracts the quantity from current stock
	MovementTypeIssue MovementType = "ISSUE"
	// MovementTypeTransfer relocates stock between locations and leaves current stock unchanged.
	// Location-level debit/credit is not modelled; the movement is recorded for traceability only.
	MovementTypeTransfer MovementType = "TRANSFER"
	// MovementTypeAdjustment sets current stock to the given quantity (absolute, not a delta)
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
	// MovementTypeReturn adds returned quantity back to current stock
	MovementTypeReturn MovementType = "RETURN"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeReceipt, MovementTypeIssue, MovementTypeTransfer, MovementTypeAdjustment, MovementTypeReturn:
		return true
	}
	return false
}

// IsAbsolute reports whether the quantity is a target level rather than a delta
func (t MovementType) IsAbsolute() bool {
	return t == MovementTypeAdjustment
}

// Apply computes the stock level after a movement of qty
func (t MovementType) Apply(current, qty decimal.Decimal) decimal.Decimal {
	switch t {
	case MovementTypeReceipt, MovementTypeReturn:
		return current.Add(qty)
	case MovementTypeIssue:
		return current.Sub(qty)
	case MovementTypeAdjustment:
		return qty
	default:
		return current
	}
}

// AllMovementTypes lists every movement type in display order
func AllMovementTypes() []MovementType {
	return []MovementType{
		MovementTypeReceipt,
		MovementTypeIssue,
		MovementTypeTransfer,
		MovementTypeAdjustment,
		MovementTypeReturn,
	}
}

// MovementDetails carries the optional metadata of a movement request
type MovementDetails struct {
	MovementDate time.Time
	FromLocation string
	ToLocation   string
	Reference    string
	Notes        string
	CreatedBy    *uuid.UUID
}

// StockMovement is an immutable record of one change to an item's stock.
// Quantity is always non-negative; the type determines the effect, and the
// before/after snapshot makes the signed effect explicit for every type.
type StockMovement struct {
	shared.BaseEntity
	TenantID      uuid.UUID
	ItemID        uuid.UUID
	Code          string
	MovementType  MovementType
	Quantity      decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	FromLocation  string
	ToLocation    string
	Reference     string
	Notes         string
	MovementDate  time.Time
	CreatedBy     *uuid.UUID
}

// SignedEffect returns the change this movement applied to current stock
func (m *StockMovement) SignedEffect() decimal.Decimal {
	return m.BalanceAfter.Sub(m.BalanceBefore)
}

// IsIncrease returns true if this movement raised the stock level
func (m *StockMovement) IsIncrease() bool {
	return m.SignedEffect().IsPositive()
}
