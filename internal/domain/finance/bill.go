package finance

import (
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillCode is the code series for supplier bills (BIL0001)
var BillCode = shared.CodeSpec{Prefix: "BIL", Width: 4}

// AggregateTypeBill names the aggregate in published events
const AggregateTypeBill = "Bill"

// Bill is a payable owed to a supplier
type Bill struct {
	shared.TenantAggregateRoot
	Settlement
	Code         string
	SupplierName string
	IssueDate    time.Time
	DueDate      *time.Time
	Notes        string
	CancelReason string
	CancelledAt  *time.Time
}

// NewBill creates a DRAFT bill
func NewBill(tenantID uuid.UUID, code, supplierName string, total decimal.Decimal, issueDate time.Time, dueDate *time.Time) (*Bill, error) {
	if strings.TrimSpace(supplierName) == "" {
		return nil, shared.NewValidationError("INVALID_SUPPLIER", "supplier_name", "Supplier name is required")
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
	return &Bill{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Settlement:          settlement,
		Code:                code,
		SupplierName:        strings.TrimSpace(supplierName),
		IssueDate:           issueDate,
		DueDate:             dueDate,
	}, nil
}

// Ref identifies the bill for payments
func (b *Bill) Ref() DocumentRef {
	return DocumentRef{Type: DocumentTypeBill, ID: b.ID, Code: b.Code}
}

// OwnerTenant returns the owning tenant
func (b *Bill) OwnerTenant() uuid.UUID {
	return b.TenantID
}

// Issue posts a DRAFT bill, moving it to SENT
func (b *Bill) Issue() error {
	if err := b.issue(b.Ref()); err != nil {
		return err
	}
	b.touch(SettlementStatusDraft)
	return nil
}

// Cancel voids a bill that has not received any payment
func (b *Bill) Cancel(reason string) error {
	from := b.Status
	if err := b.cancel(b.Ref()); err != nil {
		return err
	}
	now := time.Now()
	b.CancelledAt = &now
	b.CancelReason = reason
	b.touch(from)
	return nil
}

// ApplyPayment adds amount to the paid total and re-derives the status
func (b *Bill) ApplyPayment(amount decimal.Decimal) (SettlementChange, error) {
	change, err := b.apply(b.Ref(), amount)
	if err != nil {
		return change, err
	}
	b.touch(change.StatusBefore)
	return change, nil
}

// ReversePayment removes a cancelled payment's amount and re-derives the status
func (b *Bill) ReversePayment(amount decimal.Decimal) (SettlementChange, error) {
	change, err := b.reverse(b.Ref(), amount)
	if err != nil {
		return change, err
	}
	b.touch(change.StatusBefore)
	return change, nil
}

// IsOverdue reports whether an open bill is past its due date
func (b *Bill) IsOverdue(now time.Time) bool {
	return b.DueDate != nil && b.Status.CanAcceptPayment() && now.After(*b.DueDate)
}

func (b *Bill) touch(from SettlementStatus) {
	b.Touch()
	b.IncrementVersion()
	if from != b.Status {
		b.AddDomainEvent(NewSettlementStatusChangedEvent(AggregateTypeBill, b.TenantID, b.Ref(), from, b.Status))
	}
}
