package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig configures GORM query spans.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bind variables; development only
	SlowQueryThresh time.Duration
	DBName          string
}

// DefaultDBTracingConfig returns a disabled config with a 200ms slow threshold
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{SlowQueryThresh: 200 * time.Millisecond, DBName: "ledger"}
}

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin plus callbacks that tag each
// query span with rows affected, table and a slow-query flag.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := registerQueryTiming(db, cfg.SlowQueryThresh); err != nil {
		return err
	}
	logger.Info("Database tracing enabled", zap.Duration("slow_query_threshold", cfg.SlowQueryThresh))
	return nil
}

// registerQueryTiming hooks before/after every GORM processor.
func registerQueryTiming(db *gorm.DB, thresh time.Duration) error {
	cb := db.Callback()
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateQuerySpan(tx, thresh) }

	steps := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("ledger:timing_before_create", before) },
		func() error { return cb.Create().After("gorm:create").Register("ledger:timing_after_create", after) },
		func() error { return cb.Query().Before("gorm:query").Register("ledger:timing_before_query", before) },
		func() error { return cb.Query().After("gorm:query").Register("ledger:timing_after_query", after) },
		func() error { return cb.Update().Before("gorm:update").Register("ledger:timing_before_update", before) },
		func() error { return cb.Update().After("gorm:update").Register("ledger:timing_after_update", after) },
		func() error { return cb.Delete().Before("gorm:delete").Register("ledger:timing_before_delete", before) },
		func() error { return cb.Delete().After("gorm:delete").Register("ledger:timing_after_delete", after) },
		func() error { return cb.Row().Before("gorm:row").Register("ledger:timing_before_row", before) },
		func() error { return cb.Row().After("gorm:row").Register("ledger:timing_after_row", after) },
		func() error { return cb.Raw().Before("gorm:raw").Register("ledger:timing_before_raw", before) },
		func() error { return cb.Raw().After("gorm:raw").Register("ledger:timing_after_raw", after) },
	}
	for _, register := range steps {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

func annotateQuerySpan(tx *gorm.DB, thresh time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.RecordError(tx.Error)
		span.SetStatus(codes.Error, tx.Error.Error())
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > thresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
