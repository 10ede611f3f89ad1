package finance

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementStatus is the lifecycle status shared by invoices and bills.
// Apart from DRAFT→SENT and →CANCELLED it is derived from the amounts and never set directly.
type SettlementStatus string

const (
	SettlementStatusDraft         SettlementStatus = "DRAFT"
	SettlementStatusSent          SettlementStatus = "SENT"
	SettlementStatusPartiallyPaid SettlementStatus = "PARTIALLY_PAID"
	SettlementStatusPaid          SettlementStatus = "PAID"
	SettlementStatusCancelled     SettlementStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SettlementStatus
func (s SettlementStatus) IsValid() bool {
	switch s {
	case SettlementStatusDraft, SettlementStatusSent, SettlementStatusPartiallyPaid,
		SettlementStatusPaid, SettlementStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SettlementStatus
func (s SettlementStatus) String() string {
	return string(s)
}

// CanAcceptPayment returns true if payments can be recorded in this status
func (s SettlementStatus) CanAcceptPayment() bool {
	return s == SettlementStatusDraft || s == SettlementStatusSent || s == SettlementStatusPartiallyPaid
}

// AllSettlementStatuses lists every status in lifecycle order
func AllSettlementStatuses() []SettlementStatus {
	return []SettlementStatus{
		SettlementStatusDraft,
		SettlementStatusSent,
		SettlementStatusPartiallyPaid,
		SettlementStatusPaid,
		SettlementStatusCancelled,
	}
}

// DeriveStatus computes the status implied by the paid amount. It is the single
// rule used both when a payment is applied and when one is cancelled.
// A document that loses all its payments falls back to SENT unless it was never issued.
func DeriveStatus(total, amountPaid decimal.Decimal, current SettlementStatus) SettlementStatus {
	if current == SettlementStatusCancelled {
		return current
	}
	switch {
	case amountPaid.IsPositive() && amountPaid.GreaterThanOrEqual(total):
		return SettlementStatusPaid
	case amountPaid.IsPositive():
		return SettlementStatusPartiallyPaid
	case current == SettlementStatusDraft:
		return SettlementStatusDraft
	default:
		return SettlementStatusSent
	}
}

// DocumentType distinguishes the two settlement documents a payment can reference
type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "INVOICE"
	DocumentTypeBill    DocumentType = "BILL"
)

// DocumentRef identifies an invoice or a bill
type DocumentRef struct {
	Type DocumentType
	ID   uuid.UUID
	Code string
}

// entityName is the lowercase name used in error messages
func (r DocumentRef) entityName() string {
	if r.Type == DocumentTypeBill {
		return "bill"
	}
	return "invoice"
}

// SettlementChange is the before/after snapshot of one payment effect
type SettlementChange struct {
	BalanceDueBefore decimal.Decimal
	BalanceDueAfter  decimal.Decimal
	StatusBefore     SettlementStatus
	StatusAfter      SettlementStatus
}

// SettlementDocument is implemented by Invoice and Bill. Payments touch a
// document only through these two methods.
type SettlementDocument interface {
	Ref() DocumentRef
	OwnerTenant() uuid.UUID
	ApplyPayment(amount decimal.Decimal) (SettlementChange, error)
	ReversePayment(amount decimal.Decimal) (SettlementChange, error)
}

// Settlement holds the money state of an invoice or bill.
// BalanceDue always equals TotalAmount - AmountPaid.
type Settlement struct {
	TotalAmount decimal.Decimal
	AmountPaid  decimal.Decimal
	BalanceDue  decimal.Decimal
	Status      SettlementStatus
	PaidAt      *time.Time
}

func newSettlement(total decimal.Decimal) (Settlement, error) {
	if !total.IsPositive() {
		return Settlement{}, shared.NewValidationError("INVALID_AMOUNT", "total_amount", "Total amount must be greater than zero").
			WithDetail("value", total.String())
	}
	return Settlement{
		TotalAmount: total,
		AmountPaid:  decimal.Zero,
		BalanceDue:  total,
		Status:      SettlementStatusDraft,
	}, nil
}

func (s *Settlement) apply(ref DocumentRef, amount decimal.Decimal) (SettlementChange, error) {
	if !amount.IsPositive() {
		return SettlementChange{}, shared.NewValidationError("INVALID_AMOUNT", "amount", "Payment amount must be greater than zero").
			WithDetail("value", amount.String())
	}
	if !s.Status.CanAcceptPayment() {
		attempted := SettlementStatusPartiallyPaid
		if s.AmountPaid.Add(amount).GreaterThanOrEqual(s.TotalAmount) {
			attempted = SettlementStatusPaid
		}
		return SettlementChange{}, shared.NewIllegalTransitionError(ref.entityName(), string(s.Status), string(attempted))
	}
	if amount.GreaterThan(s.BalanceDue) {
		return SettlementChange{}, shared.NewDomainError(shared.KindExceedsBalance, "EXCEEDS_BALANCE_DUE",
			fmt.Sprintf("Payment amount %s exceeds balance due %s on %s", amount.String(), s.BalanceDue.String(), ref.Code)).
			WithDetail("field", "amount").
			WithDetail("requested", amount.String()).
			WithDetail("balance_due", s.BalanceDue.String())
	}

	change := SettlementChange{BalanceDueBefore: s.BalanceDue, StatusBefore: s.Status}
	s.AmountPaid = s.AmountPaid.Add(amount)
	s.recompute()
	change.BalanceDueAfter = s.BalanceDue
	change.StatusAfter = s.Status
	return change, nil
}

func (s *Settlement) reverse(ref DocumentRef, amount decimal.Decimal) (SettlementChange, error) {
	if !amount.IsPositive() {
		return SettlementChange{}, shared.NewValidationError("INVALID_AMOUNT", "amount", "Reversed amount must be greater than zero")
	}
	if amount.GreaterThan(s.AmountPaid) {
		return SettlementChange{}, shared.NewValidationError("REVERSAL_EXCEEDS_PAID", "amount",
			fmt.Sprintf("Cannot reverse %s, only %s was paid on %s", amount.String(), s.AmountPaid.String(), ref.Code))
	}

	change := SettlementChange{BalanceDueBefore: s.BalanceDue, StatusBefore: s.Status}
	s.AmountPaid = s.AmountPaid.Sub(amount)
	s.recompute()
	change.BalanceDueAfter = s.BalanceDue
	change.StatusAfter = s.Status
	return change, nil
}

func (s *Settlement) recompute() {
	s.BalanceDue = s.TotalAmount.Sub(s.AmountPaid)
	s.Status = DeriveStatus(s.TotalAmount, s.AmountPaid, s.Status)
	if s.Status == SettlementStatusPaid {
		if s.PaidAt == nil {
			now := time.Now()
			s.PaidAt = &now
		}
	} else {
		s.PaidAt = nil
	}
}

func (s *Settlement) issue(ref DocumentRef) error {
	if s.Status != SettlementStatusDraft {
		return shared.NewIllegalTransitionError(ref.entityName(), string(s.Status), string(SettlementStatusSent))
	}
	s.Status = SettlementStatusSent
	return nil
}

func (s *Settlement) cancel(ref DocumentRef) error {
	if s.Status != SettlementStatusDraft && s.Status != SettlementStatusSent {
		return shared.NewIllegalTransitionError(ref.entityName(), string(s.Status), string(SettlementStatusCancelled)).
			WithDetail("amount_paid", s.AmountPaid.String())
	}
	s.Status = SettlementStatusCancelled
	return nil
}
