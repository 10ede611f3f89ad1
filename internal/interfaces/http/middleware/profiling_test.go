package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type observedLabels struct {
	route, method, tenant string
	routeSet              bool
}

func newProfiledRouter(cfg ProfilingConfig, seen *observedLabels) *gin.Engine {
	router := gin.New()
	router.Use(Identity(IdentityConfig{}), Profiling(cfg))
	observe := func(c *gin.Context) {
		ctx := c.Request.Context()
		seen.route, seen.routeSet = pprof.Label(ctx, "route")
		seen.method, _ = pprof.Label(ctx, "method")
		seen.tenant, _ = pprof.Label(ctx, "tenant_id")
		c.Status(http.StatusOK)
	}
	router.GET("/api/v1/invoices/:id", observe)
	router.GET("/health", observe)
	return router
}

func TestProfiling_LabelsRequest(t *testing.T) {
	var seen observedLabels
	tenantID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/42", nil)
	req.Header.Set(TenantHeader, tenantID.String())
	w := serve(newProfiledRouter(DefaultProfilingConfig(), &seen), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/invoices/:id", seen.route)
	assert.Equal(t, http.MethodGet, seen.method)
	assert.Equal(t, tenantID.String(), seen.tenant)
}

func TestProfiling_SkipsAndDisabled(t *testing.T) {
	t.Run("skip path", func(t *testing.T) {
		var seen observedLabels
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(TenantHeader, uuid.NewString())
		serve(newProfiledRouter(DefaultProfilingConfig(), &seen), req)
		assert.False(t, seen.routeSet)
	})

	t.Run("disabled", func(t *testing.T) {
		var seen observedLabels
		req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/42", nil)
		req.Header.Set(TenantHeader, uuid.NewString())
		serve(newProfiledRouter(ProfilingConfig{Enabled: false}, &seen), req)
		assert.False(t, seen.routeSet)
	})
}
