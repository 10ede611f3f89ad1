package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   int
	Name string
}

func TestAnnotateQuerySpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	ctx, span := tp.Tracer("test").Start(context.Background(), "gorm.Update")
	ctx = context.WithValue(ctx, queryStartKey{}, time.Now().Add(-time.Second))
	tx := &gorm.DB{
		Statement: &gorm.Statement{Context: ctx, Table: "petty_cash_accounts"},
		Config:    &gorm.Config{},
	}
	tx.RowsAffected = 3
	tx.Error = errors.New("deadlock detected")

	annotateQuerySpan(tx, 200*time.Millisecond)
	span.End()

	got := sr.Ended()[0]
	attrs := map[string]any{}
	for _, kv := range got.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, true, attrs["db.slow_query"])
	assert.Equal(t, "petty_cash_accounts", attrs["db.sql.table"])
	assert.Equal(t, int64(3), attrs["db.rows_affected"])
	assert.Equal(t, codes.Error, got.Status().Code)
}

func TestAnnotateQuerySpan_IgnoresNotFound(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	ctx, span := tp.Tracer("test").Start(context.Background(), "gorm.Query")
	tx := &gorm.DB{Statement: &gorm.Statement{Context: ctx}, Config: &gorm.Config{}}
	tx.Error = gorm.ErrRecordNotFound

	annotateQuerySpan(tx, time.Second)
	span.End()

	assert.Equal(t, codes.Unset, sr.Ended()[0].Status().Code)
}

func TestRegisterDBTracing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))

	require.NoError(t, RegisterDBTracing(db, DefaultDBTracingConfig(), nil))

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	require.NoError(t, RegisterDBTracing(db, cfg, nil))
	assert.NoError(t, db.Create(&tracedRow{ID: 1, Name: "a"}).Error)
}
