package handler

import (
	financeapp "github.com/erp/ledger/internal/application/finance"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// PaymentHandler records and reverses payments against invoices and bills
type PaymentHandler struct {
	BaseHandler
	paymentService *financeapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *financeapp.PaymentService, metrics *telemetry.LedgerMetrics) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    BaseHandler{metrics: metrics},
		paymentService: paymentService,
	}
}

// Record godoc
// @Summary      Record a payment
// @Description  Settles part or all of exactly one invoice or bill. The response carries the updated document.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplicates retries"
// @Param        request body financeapp.RecordPaymentRequest true "Payment"
// @Success      201 {object} dto.Response{data=financeapp.PaymentResult}
// @Failure      400 {object} dto.Response "EXCEEDS_BALANCE, ILLEGAL_TRANSITION"
// @Failure      409 {object} dto.Response "DUPLICATE_REQUEST"
// @Router       /finance/payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	var req financeapp.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	result, err := h.paymentService.RecordPayment(c.Request.Context(), middleware.GetTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Cancel godoc
// @Summary      Cancel a payment
// @Description  Reverses an ACTIVE payment and restores the document's balance due.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body financeapp.CancelRequest true "Reason"
// @Success      200 {object} dto.Response{data=financeapp.PaymentResult}
// @Router       /finance/payments/{id}/cancel [post]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c, "payment")
	if !ok {
		return
	}
	var req financeapp.CancelRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Actor = middleware.GetUserID(c)

	result, err := h.paymentService.CancelPayment(c.Request.Context(), middleware.GetTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Get returns one payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "payment")
	if !ok {
		return
	}
	payment, err := h.paymentService.GetPayment(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// List lists payments, optionally for one invoice or bill
func (h *PaymentHandler) List(c *gin.Context) {
	var filter financeapp.PaymentListFilter
	if !bindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.InvoiceID, ok = h.queryID(c, "invoice_id"); !ok {
		return
	}
	if filter.BillID, ok = h.queryID(c, "bill_id"); !ok {
		return
	}

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, payments, total, p, size)
}
