package telemetry_test

import (
	"context"
	"testing"

	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	return sums
}

func TestLedgerMetrics_Counters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewLedgerMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()
	m.RecordEntry(ctx, tenantID, telemetry.LedgerStock, "RECEIPT", decimal.NewFromInt(50))
	m.RecordEntry(ctx, tenantID, telemetry.LedgerPettyCash, "DISBURSEMENT", decimal.NewFromInt(-300))
	m.RecordReversal(ctx, tenantID, telemetry.LedgerPayment)
	m.RecordRejection(ctx, "INSUFFICIENT_BALANCE")
	m.RecordWarning(ctx, tenantID, "LOW_BALANCE")
	m.RecordWarning(ctx, tenantID, "LOW_BALANCE")

	sums := collectSums(t, reader)
	assert.Equal(t, int64(2), sums["ledger_entries_total"])
	assert.Equal(t, int64(1), sums["ledger_reversals_total"])
	assert.Equal(t, int64(1), sums["ledger_rejections_total"])
	assert.Equal(t, int64(2), sums["ledger_warnings_total"])
}

func TestLedgerMetrics_NilIsNoop(t *testing.T) {
	var m *telemetry.LedgerMetrics
	assert.NotPanics(t, func() {
		m.RecordEntry(context.Background(), uuid.New(), telemetry.LedgerStock, "ISSUE", decimal.NewFromInt(1))
		m.RecordRejection(context.Background(), "VALIDATION")
	})
}

func TestNewLedgerMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewLedgerMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("ledger"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}
