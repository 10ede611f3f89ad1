package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouter_VersionedSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	g := NewDomainGroup("reports", "/reports")
	g.GET("/verify", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.Register(g).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/reports/verify").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/reports/verify").Code)
}

func TestRouter_UseAppliesOnlyToAPI(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.Header("X-API", "1")
		c.Next()
	})
	g := NewDomainGroup("inventory", "/inventory")
	g.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(g).Setup()

	assert.Equal(t, "1", serve(engine, http.MethodGet, "/api/v1/inventory/items").Header().Get("X-API"))
	assert.Empty(t, serve(engine, http.MethodGet, "/health").Header().Get("X-API"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("finance", "/finance")
		assert.Equal(t, "finance", g.Name())
		assert.Equal(t, "/finance", g.Prefix())
	})

	t.Run("methods and chaining", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.GET("/a", func(c *gin.Context) { c.Status(http.StatusOK) }).
			POST("/b", func(c *gin.Context) { c.Status(http.StatusCreated) }).
			PUT("/c/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/test/a").Code)
		assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/v1/test/b").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPut, "/api/v1/test/c/1").Code)
	})

	t.Run("group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.Use(func(c *gin.Context) {
			c.Header("X-Group", "applied")
			c.Next()
		})
		g.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "applied", serve(engine, http.MethodGet, "/api/v1/test/items").Header().Get("X-Group"))
	})

	t.Run("subgroups with empty relative path", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("finance", "/finance")
		g.Group("invoices", "/invoices").GET("", func(c *gin.Context) { c.String(http.StatusOK, "invoices") })
		g.Group("bills", "/bills").GET("", func(c *gin.Context) { c.String(http.StatusOK, "bills") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "invoices", serve(engine, http.MethodGet, "/api/v1/finance/invoices").Body.String())
		assert.Equal(t, "bills", serve(engine, http.MethodGet, "/api/v1/finance/bills").Body.String())
	})
}
