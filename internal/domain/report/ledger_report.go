package report

import (
	"context"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entity types reported by the reconciliation check.
const (
	EntityInventoryItem    = "INVENTORY_ITEM"
	EntityPettyCashAccount = "PETTY_CASH_ACCOUNT"
	EntityInvoice          = "INVOICE"
	EntityBill             = "BILL"
)

// Mismatch fields.
const (
	FieldCurrentStock   = "current_stock"
	FieldCurrentBalance = "current_balance"
	FieldAmountPaid     = "amount_paid"
	FieldBalanceDue     = "balance_due"
)

// SummaryFilter scopes every roll-up to a date window. AccountID narrows the
// petty cash summary to one account and is ignored elsewhere.
type SummaryFilter struct {
	shared.DateRange
	AccountID *uuid.UUID `json:"account_id,omitempty"`
}

// GroupTotal is one row of a grouped roll-up
type GroupTotal struct {
	Key    string          `json:"key"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// DocumentStatusTotal aggregates invoices or bills sharing a status
type DocumentStatusTotal struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
	Paid   decimal.Decimal `json:"paid"`
	Due    decimal.Decimal `json:"due"`
}

// LedgerMismatch describes a cached balance that disagrees with its ledger.
type LedgerMismatch struct {
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Code       string          `json:"code"`
	Field      string          `json:"field"`
	Recorded   decimal.Decimal `json:"recorded"`
	Expected   decimal.Decimal `json:"expected"`
	Difference decimal.Decimal `json:"difference"`
}

// NewLedgerMismatch fills Difference as recorded minus expected
func NewLedgerMismatch(entityType string, id uuid.UUID, code, field string, recorded, expected decimal.Decimal) LedgerMismatch {
	return LedgerMismatch{
		EntityType: entityType,
		EntityID:   id,
		Code:       code,
		Field:      field,
		Recorded:   recorded,
		Expected:   expected,
		Difference: recorded.Sub(expected),
	}
}

// SumGroups totals a slice of group rows
func SumGroups(rows []GroupTotal) (int64, decimal.Decimal) {
	var count int64
	amount := decimal.Zero
	for _, r := range rows {
		count += r.Count
		amount = amount.Add(r.Amount)
	}
	return count, amount
}

// LedgerReportRepository runs read-only aggregate queries. Implementations
// must not take row locks.
type LedgerReportRepository interface {
	// SumPaymentsByStatus groups payments by ACTIVE/CANCELLED
	SumPaymentsByStatus(ctx context.Context, tenantID uuid.UUID, filter SummaryFilter) ([]GroupTotal, error)

	// SumPaymentsByMethod groups active payments by method
	SumPaymentsByMethod(ctx context.Context, tenantID uuid.UUID, filter SummaryFilter) ([]GroupTotal, error)

	SumInvoicesByStatus(ctx context.Context, tenantID uuid.UUID, filter SummaryFilter) ([]DocumentStatusTotal, error)
	SumBillsByStatus(ctx context.Context, tenantID uuid.UUID, filter SummaryFilter) ([]DocumentStatusTotal, error)

	// SumPettyCashByType groups petty cash transactions by type. Amounts are
	// signed so adjustments net out.
	SumPettyCashByType(ctx context.Context, tenantID uuid.UUID, filter SummaryFilter) ([]GroupTotal, error)

	SumExpensesByStatus(ctx context.Context, tenantID uuid.UUID, filter SummaryFilter) ([]GroupTotal, error)
	SumExpensesByCategory(ctx context.Context, tenantID uuid.UUID, filter SummaryFilter) ([]GroupTotal, error)

	// SumStockMovementsByType reports the net stock effect per movement type
	SumStockMovementsByType(ctx context.Context, tenantID uuid.UUID, filter SummaryFilter) ([]GroupTotal, error)

	// FindStockMismatches compares current_stock with initial_stock plus the
	// sum of movement effects.
	FindStockMismatches(ctx context.Context, tenantID uuid.UUID) ([]LedgerMismatch, error)

	// FindPettyCashMismatches compares current_balance with initial_balance
	// plus signed transaction amounts.
	FindPettyCashMismatches(ctx context.Context, tenantID uuid.UUID) ([]LedgerMismatch, error)

	// FindInvoiceMismatches checks amount_paid against active payments and
	// balance_due against total minus paid.
	FindInvoiceMismatches(ctx context.Context, tenantID uuid.UUID) ([]LedgerMismatch, error)
	FindBillMismatches(ctx context.Context, tenantID uuid.UUID) ([]LedgerMismatch, error)
}
