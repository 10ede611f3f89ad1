package finance

import (
	"context"

	"github.com/erp/ledger/internal/domain/shared"
	"go.uber.org/zap"
)

// serviceBase holds what every finance service needs: the transaction scope and
// the post-commit event publisher.
type serviceBase struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

func newServiceBase(txScope TransactionScope, logger *zap.Logger) serviceBase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return serviceBase{txScope: txScope, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (b *serviceBase) SetEventPublisher(publisher shared.EventPublisher) {
	b.eventPublisher = publisher
}

// publish sends events collected inside a committed transaction
func (b *serviceBase) publish(ctx context.Context, events []shared.DomainEvent) {
	if b.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := b.eventPublisher.Publish(ctx, events...); err != nil {
		b.logger.Warn("failed to publish finance events", zap.Error(err), zap.Int("count", len(events)))
	}
}

// eventCollector gathers and clears pending events from aggregates touched in a transaction
type eventCollector struct {
	events []shared.DomainEvent
}

type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

func (c *eventCollector) collect(sources ...eventSource) {
	for _, src := range sources {
		c.events = append(c.events, src.GetDomainEvents()...)
		src.ClearDomainEvents()
	}
}
