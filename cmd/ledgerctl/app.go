package main

import (
	"fmt"
	"io"

	inventoryapp "github.com/erp/ledger/internal/application/inventory"
	reportapp "github.com/erp/ledger/internal/application/report"
	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the services a command works with
type app struct {
	inventory *inventoryapp.InventoryService
	reports   *reportapp.ReportService
	log       *zap.Logger
	out       io.Writer
	close     func()
}

// opener builds the app for one command run
type opener func(out io.Writer) (*app, error)

func newApp(db *gorm.DB, log *zap.Logger, out io.Writer) *app {
	return &app{
		inventory: inventoryapp.NewInventoryService(
			persistence.NewGormInventoryItemRepository(db),
			persistence.NewGormStockMovementRepository(db),
			persistence.NewGormInventoryTransactionScope(db),
			log,
		),
		reports: reportapp.NewReportService(persistence.NewGormLedgerReportRepository(db), log),
		log:     log,
		out:     out,
		close:   func() {},
	}
}

func openApp(out io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{LogLevel: "warn"}, log)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	a := newApp(db.DB, log, out)
	a.close = func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
		_ = log.Sync()
	}
	return a, nil
}
