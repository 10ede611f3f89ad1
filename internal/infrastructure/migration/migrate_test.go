package migration

import (
	"testing"

	"github.com/erp/ledger/migrations"
	"github.com/golang-migrate/migrate/v4/database/stub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStubMigrator(t *testing.T) *Migrator {
	t.Helper()
	driver, err := stub.WithInstance(nil, &stub.Config{})
	require.NoError(t, err)
	m, err := newEmbedded(migrations.FS, driver)
	require.NoError(t, err)
	return &Migrator{migrate: m, logger: zap.NewNop()}
}

func TestMigrator_EmbeddedSchema(t *testing.T) {
	m := newStubMigrator(t)

	status, err := m.Status()
	require.NoError(t, err)
	assert.Equal(t, Status{}, status)

	require.NoError(t, m.Up())
	status, err = m.Status()
	require.NoError(t, err)
	assert.Equal(t, uint(4), status.Version)
	assert.False(t, status.Dirty)

	require.NoError(t, m.Up(), "no change is not an error")

	require.NoError(t, m.Steps(-1))
	status, err = m.Status()
	require.NoError(t, err)
	assert.Equal(t, uint(3), status.Version)

	require.NoError(t, m.GoTo(1))
	require.NoError(t, m.Down())
	status, err = m.Status()
	require.NoError(t, err)
	assert.Equal(t, Status{}, status)

	require.NoError(t, m.Close())
}
