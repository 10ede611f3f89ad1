package inventory

import (
	"context"
	"fmt"

	"github.com/erp/ledger/internal/domain/inventory"
	"github.com/erp/ledger/internal/domain/shared"
	"go.uber.org/zap"
)

// StockAlert is a low-stock notice for one item
type StockAlert struct {
	TenantID     string `json:"tenant_id"`
	ItemID       string `json:"item_id"`
	ItemCode     string `json:"item_code"`
	CurrentStock string `json:"current_stock"`
	ReorderLevel string `json:"reorder_level"`
	AlertType    string `json:"alert_type"` // low_stock, out_of_stock
}

// StockAlertNotifier delivers stock alerts
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockBelowReorderLevelHandler turns StockBelowReorderLevel events into alerts.
// The alert is informational; failures are logged and swallowed.
type StockBelowReorderLevelHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// NewStockBelowReorderLevelHandler creates a handler that logs alerts
func NewStockBelowReorderLevelHandler(logger *zap.Logger) *StockBelowReorderLevelHandler {
	return &StockBelowReorderLevelHandler{
		logger:   logger,
		notifier: NewLoggingStockAlertNotifier(logger),
	}
}

// WithNotifier replaces the default logging notifier
func (h *StockBelowReorderLevelHandler) WithNotifier(notifier StockAlertNotifier) *StockBelowReorderLevelHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockBelowReorderLevelHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowReorderLevel}
}

// Handle processes a StockBelowReorderLevelEvent
func (h *StockBelowReorderLevelHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	ev, ok := event.(*inventory.StockBelowReorderLevelEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockBelowReorderLevel, event.EventType())
	}

	alertType := "low_stock"
	if ev.CurrentStock.IsZero() {
		alertType = "out_of_stock"
	}
	alert := StockAlert{
		TenantID:     event.TenantID().String(),
		ItemID:       ev.ItemID.String(),
		ItemCode:     ev.ItemCode,
		CurrentStock: ev.CurrentStock.String(),
		ReorderLevel: ev.ReorderLevel.String(),
		AlertType:    alertType,
	}

	if h.notifier == nil {
		return nil
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		h.logger.Error("failed to send stock alert",
			zap.String("item_code", alert.ItemCode),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*StockBelowReorderLevelHandler)(nil)

// LoggingStockAlertNotifier writes alerts to the log
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingStockAlertNotifier{logger: logger}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("stock below reorder level",
		zap.String("type", alert.AlertType),
		zap.String("tenant_id", alert.TenantID),
		zap.String("item_code", alert.ItemCode),
		zap.String("current_stock", alert.CurrentStock),
		zap.String("reorder_level", alert.ReorderLevel),
	)
	return nil
}
