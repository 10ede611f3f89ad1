package finance

import (
	"context"
	"fmt"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/shared"
	"go.uber.org/zap"
)

// PettyCashBelowMinimumHandler logs a replenishment reminder when an account drops
// under its configured minimum balance
type PettyCashBelowMinimumHandler struct {
	logger *zap.Logger
}

// NewPettyCashBelowMinimumHandler creates a new PettyCashBelowMinimumHandler
func NewPettyCashBelowMinimumHandler(logger *zap.Logger) *PettyCashBelowMinimumHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PettyCashBelowMinimumHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *PettyCashBelowMinimumHandler) EventTypes() []string {
	return []string{finance.EventTypePettyCashBelowMinimum}
}

// Handle processes a PettyCashBelowMinimumEvent
func (h *PettyCashBelowMinimumHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	ev, ok := event.(*finance.PettyCashBelowMinimumEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			finance.EventTypePettyCashBelowMinimum, event.EventType())
	}
	h.logger.Warn("petty cash below minimum balance",
		zap.String("tenant_id", ev.TenantID().String()),
		zap.String("account_id", ev.AggregateID().String()),
		zap.String("account_code", ev.AccountCode),
		zap.String("current_balance", ev.CurrentBalance.String()),
		zap.String("min_balance", ev.MinBalance.String()),
		zap.String("shortfall", ev.MinBalance.Sub(ev.CurrentBalance).String()),
	)
	return nil
}

var _ shared.EventHandler = (*PettyCashBelowMinimumHandler)(nil)
