package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/ledger/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis: connection refused")
}
func (failingStore) IsProcessed(context.Context, string) (bool, error) { return false, nil }
func (failingStore) Release(context.Context, string) error             { return nil }
func (failingStore) Close() error                                      { return nil }

func newIdempotentRouter(t *testing.T, status *int, calls *atomic.Int32) (*gin.Engine, *cache.InMemoryIdempotencyStore) {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { store.Close() })

	router := gin.New()
	router.Use(RequestID(), Identity(IdentityConfig{}), Idempotency(store, time.Hour))
	router.POST("/payments", func(c *gin.Context) {
		calls.Add(1)
		c.JSON(*status, gin.H{"success": *status < 300})
	})
	return router, store
}

func postWithKey(tenantID uuid.UUID, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{}`))
	req.Header.Set(TenantHeader, tenantID.String())
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req
}

func TestIdempotency(t *testing.T) {
	t.Run("duplicate key is rejected", func(t *testing.T) {
		status := http.StatusCreated
		var calls atomic.Int32
		router, _ := newIdempotentRouter(t, &status, &calls)
		tenantID := uuid.New()

		first := serve(router, postWithKey(tenantID, "pay-1"))
		second := serve(router, postWithKey(tenantID, "pay-1"))

		assert.Equal(t, http.StatusCreated, first.Code)
		assert.Equal(t, http.StatusConflict, second.Code)
		assert.Equal(t, "DUPLICATE_REQUEST", errorCode(t, second))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("failed request releases its key", func(t *testing.T) {
		status := http.StatusBadRequest
		var calls atomic.Int32
		router, store := newIdempotentRouter(t, &status, &calls)
		tenantID := uuid.New()

		assert.Equal(t, http.StatusBadRequest, serve(router, postWithKey(tenantID, "pay-2")).Code)
		assert.Zero(t, store.Size())

		status = http.StatusCreated
		assert.Equal(t, http.StatusCreated, serve(router, postWithKey(tenantID, "pay-2")).Code)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("keys are scoped per tenant", func(t *testing.T) {
		status := http.StatusCreated
		var calls atomic.Int32
		router, _ := newIdempotentRouter(t, &status, &calls)

		assert.Equal(t, http.StatusCreated, serve(router, postWithKey(uuid.New(), "shared")).Code)
		assert.Equal(t, http.StatusCreated, serve(router, postWithKey(uuid.New(), "shared")).Code)
	})

	t.Run("requests without a key pass through", func(t *testing.T) {
		status := http.StatusCreated
		var calls atomic.Int32
		router, _ := newIdempotentRouter(t, &status, &calls)
		tenantID := uuid.New()

		serve(router, postWithKey(tenantID, ""))
		serve(router, postWithKey(tenantID, ""))
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("oversized key", func(t *testing.T) {
		status := http.StatusCreated
		var calls atomic.Int32
		router, _ := newIdempotentRouter(t, &status, &calls)

		w := serve(router, postWithKey(uuid.New(), strings.Repeat("k", 200)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, calls.Load())
	})
}

func TestIdempotency_StoreOutageFailsOpen(t *testing.T) {
	router := gin.New()
	router.Use(Identity(IdentityConfig{}), Idempotency(failingStore{}, time.Hour))
	router.POST("/payments", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := serve(router, postWithKey(uuid.New(), "pay-3"))
	require.Equal(t, http.StatusCreated, w.Code)
}
