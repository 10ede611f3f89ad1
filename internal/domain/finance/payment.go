package finance

import (
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentCode is the code series for payments (PAY0001)
var PaymentCode = shared.CodeSpec{Prefix: "PAY", Width: 4}

// AggregateTypePayment names the aggregate in published events
const AggregateTypePayment = "Payment"

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusActive    PaymentStatus = "ACTIVE"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusActive || s == PaymentStatusCancelled
}

// PaymentMethod is how the money moved
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// PaymentDetails carries the caller-supplied attributes of a new payment
type PaymentDetails struct {
	Amount      decimal.Decimal
	Method      PaymentMethod
	PaymentDate time.Time
	Reference   string
	Notes       string
	CreatedBy   *uuid.UUID
}

// Payment is an immutable settlement against exactly one invoice or one bill.
// It is never edited; cancellation flips Status and reverses its effect on the document.
type Payment struct {
	shared.TenantAggregateRoot
	Code             string
	InvoiceID        *uuid.UUID
	BillID           *uuid.UUID
	Amount           decimal.Decimal
	Method           PaymentMethod
	PaymentDate      time.Time
	Reference        string
	Notes            string
	Status           PaymentStatus
	BalanceDueBefore decimal.Decimal
	BalanceDueAfter  decimal.Decimal
	CancelledAt      *time.Time
	CancelledBy      *uuid.UUID
	CancelReason     string
}

// Target returns which document the payment settles
func (p *Payment) Target() DocumentRef {
	if p.InvoiceID != nil {
		return DocumentRef{Type: DocumentTypeInvoice, ID: *p.InvoiceID}
	}
	if p.BillID != nil {
		return DocumentRef{Type: DocumentTypeBill, ID: *p.BillID}
	}
	return DocumentRef{}
}

// IsActive reports whether the payment still counts toward its document
func (p *Payment) IsActive() bool {
	return p.Status == PaymentStatusActive
}

// ValidatePaymentTarget enforces that a payment references exactly one invoice or one bill.
func ValidatePaymentTarget(invoiceID, billID *uuid.UUID) error {
	hasInvoice := invoiceID != nil && *invoiceID != uuid.Nil
	hasBill := billID != nil && *billID != uuid.Nil
	if hasInvoice == hasBill {
		return shared.NewValidationError("INVALID_PAYMENT_TARGET", "invoice_id",
			"A payment must reference exactly one invoice or one bill").
			WithDetail("has_invoice", hasInvoice).
			WithDetail("has_bill", hasBill)
	}
	return nil
}

// RecordPayment applies a new payment to doc. It touches exactly two aggregates,
// the new Payment and the document, and leaves doc unchanged on error.
func RecordPayment(doc SettlementDocument, code string, details PaymentDetails) (*Payment, error) {
	if details.Method == "" {
		details.Method = PaymentMethodCash
	}
	if !details.Method.IsValid() {
		return nil, shared.NewValidationError("INVALID_PAYMENT_METHOD", "method", "Unknown payment method").
			WithDetail("value", string(details.Method))
	}
	if details.PaymentDate.IsZero() {
		details.PaymentDate = time.Now()
	}

	ref := doc.Ref()
	payment := &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(doc.OwnerTenant()),
		Code:                code,
		Amount:              details.Amount,
		Method:              details.Method,
		PaymentDate:         details.PaymentDate,
		Reference:           strings.TrimSpace(details.Reference),
		Notes:               details.Notes,
		Status:              PaymentStatusActive,
	}
	payment.SetCreatedBy(details.CreatedBy)
	docID := ref.ID
	switch ref.Type {
	case DocumentTypeInvoice:
		payment.InvoiceID = &docID
	case DocumentTypeBill:
		payment.BillID = &docID
	}
	if err := ValidatePaymentTarget(payment.InvoiceID, payment.BillID); err != nil {
		return nil, err
	}

	change, err := doc.ApplyPayment(details.Amount)
	if err != nil {
		return nil, err
	}
	payment.BalanceDueBefore = change.BalanceDueBefore
	payment.BalanceDueAfter = change.BalanceDueAfter
	payment.AddDomainEvent(NewPaymentRecordedEvent(payment, ref, change))

	return payment, nil
}

// CancelPayment reverses p on doc and flags it CANCELLED. Cancelling twice is rejected
// and changes nothing.
func CancelPayment(doc SettlementDocument, p *Payment, reason string, cancelledBy *uuid.UUID) (SettlementChange, error) {
	if p.Status == PaymentStatusCancelled {
		return SettlementChange{}, shared.NewIllegalTransitionError("payment", string(p.Status), string(PaymentStatusCancelled)).
			WithDetail("payment_code", p.Code)
	}
	if strings.TrimSpace(reason) == "" {
		return SettlementChange{}, shared.NewValidationError("INVALID_REASON", "reason", "Cancellation reason is required")
	}
	ref := doc.Ref()
	target := p.Target()
	if target.Type != ref.Type || target.ID != ref.ID {
		return SettlementChange{}, shared.NewValidationError("PAYMENT_DOCUMENT_MISMATCH", "payment_id",
			"Payment does not belong to the given document")
	}

	change, err := doc.ReversePayment(p.Amount)
	if err != nil {
		return SettlementChange{}, err
	}

	now := time.Now()
	p.Status = PaymentStatusCancelled
	p.CancelledAt = &now
	p.CancelReason = strings.TrimSpace(reason)
	if cancelledBy != nil && *cancelledBy != uuid.Nil {
		by := *cancelledBy
		p.CancelledBy = &by
	}
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentCancelledEvent(p, ref, change))

	return change, nil
}
