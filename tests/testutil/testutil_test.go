package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/erp/ledger/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(eventType string, tenantID uuid.UUID) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "InventoryItem", uuid.New(), tenantID)
	return &e
}

func TestNewLedgerDB(t *testing.T) {
	db := NewLedgerDB(t)

	var items []models.InventoryItemModel
	err := db.Find(&items).Error
	assert.ErrorIs(t, err, tenant.ErrUnscopedStatement)

	require.NoError(t, db.Scopes(tenant.Scope(TestTenantID())).Find(&items).Error)
	assert.Empty(t, items)
}

func TestNewMockDB(t *testing.T) {
	m := NewMockDBWithPings(t)
	m.Mock.ExpectPing()

	require.NoError(t, m.SqlDB.Ping())
	m.ExpectationsWereMet(t)

	plain := NewMockDB(t)
	require.NoError(t, plain.SqlDB.Ping())
	plain.ExpectationsWereMet(t)
}

func TestEventRecorder(t *testing.T) {
	r := NewEventRecorder("A")
	assert.Equal(t, []string{"A"}, r.EventTypes())

	tenantID := TestTenantID()
	ctx := context.Background()
	require.NoError(t, r.Publish(ctx,
		newEvent("A", tenantID),
		newEvent("B", tenantID),
	))
	assert.Equal(t, 1, r.Count("A"))
	assert.Len(t, r.Events(), 2)

	boom := errors.New("boom")
	r.SetError(boom)
	assert.ErrorIs(t, r.Handle(ctx, newEvent("A", tenantID)), boom)

	r.Reset()
	assert.Empty(t, r.Events())
}

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("x"), NewTestUUID("x"))
	assert.NotEqual(t, TestTenantID(), TestUserID())
}
