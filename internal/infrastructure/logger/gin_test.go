package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(log *zap.Logger, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-42")
		c.Next()
	})
	router.Use(Recovery(log), GinMiddleware(log))
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithTenantID(c.Request.Context(), "tenant-a"))
		c.Next()
	})
	router.GET("/items/:id", handler)
	return router
}

func TestGinMiddleware_LogsRequestWithTenant(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	router := newTestRouter(zap.New(core), func(c *gin.Context) {
		L(c.Request.Context()).Info("handler ran")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/1?page=2", nil))
	require.Equal(t, http.StatusOK, w.Code)

	handlerLogs := recorded.FilterMessage("handler ran").All()
	require.Len(t, handlerLogs, 1)
	assert.Equal(t, "req-42", handlerLogs[0].ContextMap()["request_id"])
	assert.Equal(t, "tenant-a", handlerLogs[0].ContextMap()["tenant_id"])

	requestLogs := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, requestLogs, 1)
	fields := requestLogs[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, requestLogs[0].Level)
	assert.Equal(t, "/items/:id", fields["route"])
	assert.Equal(t, "page=2", fields["query"])
	assert.Equal(t, "tenant-a", fields["tenant_id"])
}

func TestGinMiddleware_ClientErrorsLogAtWarn(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	router := newTestRouter(zap.New(core), func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))

	logs := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
}

func TestRecovery_ReturnsEnvelope(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	router := newTestRouter(zap.New(core), func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/1", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"INTERNAL_ERROR"`)
	assert.Contains(t, w.Body.String(), `"req-42"`)
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}
