package handler

import (
	"context"

	reportapp "github.com/erp/ledger/internal/application/report"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler serves ledger summaries and the reconciliation check.
// Every summary accepts from/to (YYYY-MM-DD, inclusive).
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService, metrics *telemetry.LedgerMetrics) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   BaseHandler{metrics: metrics},
		reportService: reportService,
	}
}

// summarize binds the shared summary query and writes the result of run
func summarize[T any](h *ReportHandler, c *gin.Context, run func(context.Context, uuid.UUID, reportapp.SummaryRequest) (T, error)) {
	var req reportapp.SummaryRequest
	if !bindQuery(c, &req) {
		return
	}
	accountID, ok := h.queryID(c, "account_id")
	if !ok {
		return
	}
	req.AccountID = accountID

	result, err := run(c.Request.Context(), middleware.GetTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Payments godoc
// @Summary      Payment summary
// @Description  Totals by status and, for active payments, by method.
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=reportapp.PaymentSummaryResponse}
// @Router       /reports/payments [get]
func (h *ReportHandler) Payments(c *gin.Context) {
	summarize(h, c, h.reportService.SummarizePayments)
}

// Invoices returns count, total, paid and due per invoice status
func (h *ReportHandler) Invoices(c *gin.Context) {
	summarize(h, c, h.reportService.SummarizeInvoices)
}

// Bills returns count, total, paid and due per bill status
func (h *ReportHandler) Bills(c *gin.Context) {
	summarize(h, c, h.reportService.SummarizeBills)
}

// PettyCash returns the net amount per transaction type, optionally for one account_id
func (h *ReportHandler) PettyCash(c *gin.Context) {
	summarize(h, c, h.reportService.SummarizePettyCash)
}

// Expenses returns totals by status and by category
func (h *ReportHandler) Expenses(c *gin.Context) {
	summarize(h, c, h.reportService.SummarizeExpenses)
}

// StockMovements returns the net stock effect per movement type
func (h *ReportHandler) StockMovements(c *gin.Context) {
	summarize(h, c, h.reportService.SummarizeStockMovements)
}

// Verify godoc
// @Summary      Verify the ledger
// @Description  Recomputes every cached balance of the tenant from its ledger entries and lists disagreements. Read-only.
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.VerificationResult}
// @Router       /reports/verify [get]
func (h *ReportHandler) Verify(c *gin.Context) {
	result, err := h.reportService.VerifyLedger(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
