package cache

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis points at a closed local port
var unreachableRedis = config.RedisConfig{Host: "127.0.0.1", Port: 1}

func TestIdempotencyStoreFactory_Create(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("memory", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(unreachableRedis).Create(ctx, config.IdempotencyConfig{Store: StoreMemory})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("redis falls back when allowed", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(unreachableRedis).Create(ctx, config.IdempotencyConfig{Store: StoreRedis})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("redis required", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(unreachableRedis, WithInMemoryFallback(false))
		_, err := f.Create(ctx, config.IdempotencyConfig{Store: StoreRedis})
		assert.Error(t, err)
	})

	t.Run("unknown store", func(t *testing.T) {
		_, err := NewIdempotencyStoreFactory(unreachableRedis).Create(ctx, config.IdempotencyConfig{Store: "etcd"})
		assert.Error(t, err)
	})
}
