//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisStore(t *testing.T) *RedisIdempotencyStore {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	store, err := NewRedisIdempotencyStore(ctx, config.RedisConfig{Host: host, Port: port.Int()}, "test:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisIdempotencyStore(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	claimed, err := store.MarkProcessed(ctx, "tenant:key", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = store.MarkProcessed(ctx, "tenant:key", time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed)

	held, err := store.IsProcessed(ctx, "tenant:key")
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, store.Release(ctx, "tenant:key"))
	held, err = store.IsProcessed(ctx, "tenant:key")
	require.NoError(t, err)
	assert.False(t, held)
}
