package router

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/interfaces/http/handler"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers of the ledger API
type Handlers struct {
	Inventory *handler.InventoryHandler
	Documents *handler.DocumentHandler
	Payments  *handler.PaymentHandler
	PettyCash *handler.PettyCashHandler
	Expenses  *handler.ExpenseHandler
	Reports   *handler.ReportHandler
	System    *handler.SystemHandler
}

// Options configures the engine's middleware chain
type Options struct {
	Logger           *zap.Logger
	HTTP             config.HTTPConfig
	Tracing          middleware.TracingConfig
	Metrics          middleware.HTTPMetricsConfig
	Profiling        middleware.ProfilingConfig
	Identity         middleware.IdentityConfig
	IdempotencyStore shared.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewEngine builds the gin engine. Engine-wide middleware runs for every
// request; identity, profiling labels and idempotency apply to /api/v1 only.
func NewEngine(opts Options, h Handlers) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = opts.HTTP.CORSAllowOrigins

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.Tracing(opts.Tracing),
		logger.GinMiddleware(log),
		middleware.HTTPMetrics(opts.Metrics),
		middleware.Secure(),
		middleware.CORSWithConfig(cors),
		middleware.BodyLimit(opts.HTTP.MaxBodySize),
	)

	engine.GET("/health", h.System.Health)
	engine.GET("/system/info", h.System.Info)
	engine.GET("/system/ping", h.System.Ping)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(
		middleware.Identity(opts.Identity),
		middleware.SpanEnricher(),
		middleware.Profiling(opts.Profiling),
		middleware.Idempotency(opts.IdempotencyStore, opts.IdempotencyTTL),
	)
	r.Register(inventoryRoutes(h.Inventory)).
		Register(financeRoutes(h)).
		Register(reportRoutes(h.Reports))
	r.Setup()

	return engine, nil
}

func inventoryRoutes(h *handler.InventoryHandler) *DomainGroup {
	g := NewDomainGroup("inventory", "/inventory")
	g.POST("/items", h.CreateItem)
	g.GET("/items", h.ListItems)
	g.GET("/items/:id", h.GetItem)
	g.POST("/items/:id/deactivate", h.DeactivateItem)
	g.GET("/items/:id/movements", h.ListItemMovements)
	g.POST("/movements", h.RecordMovement)
	g.GET("/movements", h.ListMovements)
	g.GET("/movements/:id", h.GetMovement)
	return g
}

func financeRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("finance", "/finance")

	invoices := g.Group("invoices", "/invoices")
	invoices.POST("", h.Documents.CreateInvoice)
	invoices.GET("", h.Documents.ListInvoices)
	invoices.GET("/:id", h.Documents.GetInvoice)
	invoices.POST("/:id/issue", h.Documents.IssueInvoice)
	invoices.POST("/:id/cancel", h.Documents.CancelInvoice)

	bills := g.Group("bills", "/bills")
	bills.POST("", h.Documents.CreateBill)
	bills.GET("", h.Documents.ListBills)
	bills.GET("/:id", h.Documents.GetBill)
	bills.POST("/:id/issue", h.Documents.IssueBill)
	bills.POST("/:id/cancel", h.Documents.CancelBill)

	payments := g.Group("payments", "/payments")
	payments.POST("", h.Payments.Record)
	payments.GET("", h.Payments.List)
	payments.GET("/:id", h.Payments.Get)
	payments.POST("/:id/cancel", h.Payments.Cancel)

	pettyCash := g.Group("petty-cash", "/petty-cash")
	pettyCash.POST("/accounts", h.PettyCash.CreateAccount)
	pettyCash.GET("/accounts", h.PettyCash.ListAccounts)
	pettyCash.GET("/accounts/:id", h.PettyCash.GetAccount)
	pettyCash.POST("/accounts/:id/deactivate", h.PettyCash.DeactivateAccount)
	pettyCash.GET("/accounts/:id/transactions", h.PettyCash.ListAccountTransactions)
	pettyCash.POST("/transactions", h.PettyCash.CreateTransaction)
	pettyCash.GET("/transactions", h.PettyCash.ListTransactions)

	expenses := g.Group("expenses", "/expenses")
	expenses.POST("", h.Expenses.Create)
	expenses.GET("", h.Expenses.List)
	expenses.GET("/:id", h.Expenses.Get)
	expenses.PUT("/:id/status", h.Expenses.UpdateStatus)

	return g
}

func reportRoutes(h *handler.ReportHandler) *DomainGroup {
	g := NewDomainGroup("report", "/reports")
	g.GET("/payments", h.Payments)
	g.GET("/invoices", h.Invoices)
	g.GET("/bills", h.Bills)
	g.GET("/petty-cash", h.PettyCash)
	g.GET("/expenses", h.Expenses)
	g.GET("/stock-movements", h.StockMovements)
	g.GET("/verify", h.Verify)
	return g
}
