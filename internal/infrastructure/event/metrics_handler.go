package event

import (
	"context"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/inventory"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
)

// LedgerMetricsHandler turns committed ledger events into metric points.
type LedgerMetricsHandler struct {
	metrics *telemetry.LedgerMetrics
}

// NewLedgerMetricsHandler creates a LedgerMetricsHandler. A nil metrics set
// makes the handler a no-op.
func NewLedgerMetricsHandler(metrics *telemetry.LedgerMetrics) *LedgerMetricsHandler {
	return &LedgerMetricsHandler{metrics: metrics}
}

// EventTypes implements shared.EventHandler
func (h *LedgerMetricsHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeStockMovementRecorded,
		inventory.EventTypeStockBelowReorderLevel,
		finance.EventTypePaymentRecorded,
		finance.EventTypePaymentCancelled,
		finance.EventTypePettyCashTransactionRecorded,
		finance.EventTypePettyCashBelowMinimum,
	}
}

// Handle implements shared.EventHandler
func (h *LedgerMetricsHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	tenantID := evt.TenantID()
	switch e := evt.(type) {
	case *inventory.StockMovementRecordedEvent:
		h.metrics.RecordEntry(ctx, tenantID, telemetry.LedgerStock, string(e.MovementType), e.Quantity)
	case *finance.PaymentRecordedEvent:
		h.metrics.RecordEntry(ctx, tenantID, telemetry.LedgerPayment, string(e.Method), e.Amount)
	case *finance.PaymentCancelledEvent:
		h.metrics.RecordReversal(ctx, tenantID, telemetry.LedgerPayment)
	case *finance.PettyCashTransactionRecordedEvent:
		h.metrics.RecordEntry(ctx, tenantID, telemetry.LedgerPettyCash, string(e.TransactionType), e.Amount)
	case *finance.PettyCashBelowMinimumEvent:
		h.metrics.RecordWarning(ctx, tenantID, finance.WarningCodeLowBalance)
	case *inventory.StockBelowReorderLevelEvent:
		h.metrics.RecordWarning(ctx, tenantID, inventory.WarningCodeBelowReorderLevel)
	}
	return nil
}

var _ shared.EventHandler = (*LedgerMetricsHandler)(nil)
