package finance

import (
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceCode is the code series for invoices (INV0001)
var InvoiceCode = shared.CodeSpec{Prefix: "INV", Width: 4}

// AggregateTypeInvoice names the aggregate in published events
const AggregateTypeInvoice = "Invoice"

// Invoice is a receivable owed by a customer
type Invoice struct {
	shared.TenantAggregateRoot
	Settlement
	Code         string
	CustomerName string
	IssueDate    time.Time
	DueDate      *time.Time
	Notes        string
	CancelReason string
	CancelledAt  *time.Time
}

// NewInvoice creates a DRAFT invoice
func NewInvoice(tenantID uuid.UUID, code, customerName string, total decimal.Decimal, issueDate time.Time, dueDate *time.Time) (*Invoice, error) {
	if strings.TrimSpace(customerName) == "" {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "customer_name", "Customer name is required")
	}
	if issueDate.IsZero() {
		issueDate = time.Now()
	}
	if dueDate != nil && dueDate.Before(issueDate) {
		return nil, shared.NewValidationError("INVALID_DUE_DATE", "due_date", "Due date cannot be before issue date")
	}
	settlement, err := newSettlement(total)
	if err != nil {
		return nil, err
	}
	return &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Settlement:          settlement,
		Code:                code,
		CustomerName:        strings.TrimSpace(customerName),
		IssueDate:           issueDate,
		DueDate:             dueDate,
	}, nil
}

// Ref identifies the invoice for payments
func (inv *Invoice) Ref() DocumentRef {
	return DocumentRef{Type: DocumentTypeInvoice, ID: inv.ID, Code: inv.Code}
}

// OwnerTenant returns the owning tenant
func (inv *Invoice) OwnerTenant() uuid.UUID {
	return inv.TenantID
}

// Issue moves a DRAFT invoice to SENT
func (inv *Invoice) Issue() error {
	if err := inv.issue(inv.Ref()); err != nil {
		return err
	}
	inv.touch(SettlementStatusDraft)
	return nil
}

// Cancel voids an invoice that has not received any payment
func (inv *Invoice) Cancel(reason string) error {
	from := inv.Status
	if err := inv.cancel(inv.Ref()); err != nil {
		return err
	}
	now := time.Now()
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.touch(from)
	return nil
}

// ApplyPayment adds amount to the paid total and re-derives the status
func (inv *Invoice) ApplyPayment(amount decimal.Decimal) (SettlementChange, error) {
	change, err := inv.apply(inv.Ref(), amount)
	if err != nil {
		return change, err
	}
	inv.touch(change.StatusBefore)
	return change, nil
}

// ReversePayment removes a cancelled payment's amount and re-derives the status
func (inv *Invoice) ReversePayment(amount decimal.Decimal) (SettlementChange, error) {
	change, err := inv.reverse(inv.Ref(), amount)
	if err != nil {
		return change, err
	}
	inv.touch(change.StatusBefore)
	return change, nil
}

// IsOverdue reports whether an open invoice is past its due date
func (inv *Invoice) IsOverdue(now time.Time) bool {
	return inv.DueDate != nil && inv.Status.CanAcceptPayment() && now.After(*inv.DueDate)
}

func (inv *Invoice) touch(from SettlementStatus) {
	inv.Touch()
	inv.IncrementVersion()
	if from != inv.Status {
		inv.AddDomainEvent(NewSettlementStatusChangedEvent(AggregateTypeInvoice, inv.TenantID, inv.Ref(), from, inv.Status))
	}
}
