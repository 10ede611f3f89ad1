package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New(), uuid.New())}
}

type testHandler struct {
	mu      sync.Mutex
	types   []string
	handled []string
	err     error
	panics  bool
}

func (h *testHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, evt.EventType())
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.types }

func TestBus_DispatchesByType(t *testing.T) {
	bus := NewBus(zap.NewNop())
	payments := &testHandler{types: []string{"PaymentRecorded"}}
	all := &testHandler{}
	bus.Subscribe(payments)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("PaymentRecorded"),
		newTestEvent("StockMovementRecorded"),
	))

	assert.Equal(t, []string{"PaymentRecorded"}, payments.handled)
	assert.Equal(t, []string{"PaymentRecorded", "StockMovementRecorded"}, all.handled)
}

func TestBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewBus(nil)
	h := &testHandler{types: []string{"A"}}
	bus.Subscribe(h, "B")

	_ = bus.Publish(context.Background(), newTestEvent("A"), newTestEvent("B"))

	assert.Equal(t, []string{"B"}, h.handled)
}

func TestBus_FailuresDoNotStopDelivery(t *testing.T) {
	bus := NewBus(nil)
	failing := &testHandler{err: errors.New("downstream unavailable")}
	panicking := &testHandler{panics: true}
	ok := &testHandler{}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(ok)

	err := bus.Publish(context.Background(), newTestEvent("X"))

	assert.NoError(t, err)
	assert.Len(t, failing.handled, 1)
	assert.Len(t, ok.handled, 1)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil)
	h := &testHandler{types: []string{"A"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	_ = bus.Publish(context.Background(), newTestEvent("A"))

	assert.Empty(t, h.handled)
	assert.Empty(t, bus.byType)
}
