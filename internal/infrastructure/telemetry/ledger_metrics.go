package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Ledger names used as the "ledger" metric attribute.
const (
	LedgerStock     = "stock"
	LedgerPettyCash = "petty_cash"
	LedgerPayment   = "payment"
)

// LedgerMetrics counts ledger entries, rejected operations and warnings.
// A nil *LedgerMetrics is valid and records nothing.
type LedgerMetrics struct {
	entries    *Counter
	reversals  *Counter
	rejections *Counter
	warnings   *Counter
	amounts    *Histogram
}

// NewLedgerMetrics registers the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	var (
		m   LedgerMetrics
		err error
	)
	if m.entries, err = NewCounter(meter, "ledger_entries_total", "Ledger entries recorded", "{entries}"); err != nil {
		return nil, err
	}
	if m.reversals, err = NewCounter(meter, "ledger_reversals_total", "Ledger entries reversed by cancellation", "{entries}"); err != nil {
		return nil, err
	}
	if m.rejections, err = NewCounter(meter, "ledger_rejections_total", "Operations rejected by a business rule", "{operations}"); err != nil {
		return nil, err
	}
	if m.warnings, err = NewCounter(meter, "ledger_warnings_total", "Non-blocking warnings returned to callers", "{warnings}"); err != nil {
		return nil, err
	}
	m.amounts, err = NewHistogram(meter, HistogramOpts{
		Name:        "ledger_entry_amount",
		Description: "Absolute amount or quantity per ledger entry",
		Unit:        "1",
		Boundaries:  []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordEntry counts one ledger entry and its absolute size.
func (m *LedgerMetrics) RecordEntry(ctx context.Context, tenantID uuid.UUID, ledger, entryType string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		AttrTenantID.String(tenantID.String()),
		AttrLedger.String(ledger),
		AttrEntryType.String(entryType),
	}
	m.entries.Inc(ctx, attrs...)
	m.amounts.Record(ctx, amount.Abs().InexactFloat64(), attrs...)
}

// RecordReversal counts a cancelled entry
func (m *LedgerMetrics) RecordReversal(ctx context.Context, tenantID uuid.UUID, ledger string) {
	if m == nil {
		return
	}
	m.reversals.Inc(ctx, AttrTenantID.String(tenantID.String()), AttrLedger.String(ledger))
}

// RecordRejection counts an operation refused with the given error kind
func (m *LedgerMetrics) RecordRejection(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.rejections.Inc(ctx, AttrErrorKind.String(kind))
}

// RecordWarning counts a warning by code
func (m *LedgerMetrics) RecordWarning(ctx context.Context, tenantID uuid.UUID, code string) {
	if m == nil {
		return
	}
	m.warnings.Inc(ctx, AttrTenantID.String(tenantID.String()), AttrWarningCode.String(code))
}
