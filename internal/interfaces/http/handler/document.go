package handler

import (
	"context"

	financeapp "github.com/erp/ledger/internal/application/finance"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler serves invoices (receivables) and bills (payables).
// Both share one lifecycle, so each route is bound to a documentOps pair.
type DocumentHandler struct {
	BaseHandler
	documentService *financeapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *financeapp.DocumentService, metrics *telemetry.LedgerMetrics) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler:     BaseHandler{metrics: metrics},
		documentService: documentService,
	}
}

type documentOps struct {
	entity string
	create func(context.Context, uuid.UUID, financeapp.CreateDocumentRequest) (*financeapp.DocumentResponse, error)
	issue  func(context.Context, uuid.UUID, uuid.UUID) (*financeapp.DocumentResponse, error)
	cancel func(context.Context, uuid.UUID, uuid.UUID, financeapp.CancelRequest) (*financeapp.DocumentResponse, error)
	get    func(context.Context, uuid.UUID, uuid.UUID) (*financeapp.DocumentResponse, error)
	list   func(context.Context, uuid.UUID, financeapp.DocumentListFilter) ([]financeapp.DocumentResponse, int64, error)
}

func (h *DocumentHandler) invoices() documentOps {
	s := h.documentService
	return documentOps{"invoice", s.CreateInvoice, s.IssueInvoice, s.CancelInvoice, s.GetInvoice, s.ListInvoices}
}

func (h *DocumentHandler) bills() documentOps {
	s := h.documentService
	return documentOps{"bill", s.CreateBill, s.IssueBill, s.CancelBill, s.GetBill, s.ListBills}
}

// CreateInvoice godoc
// @Summary      Create an invoice
// @Description  Creates a DRAFT invoice (INV####) whose balance due equals its total.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateDocumentRequest true "Invoice, party is the customer"
// @Success      201 {object} dto.Response{data=financeapp.DocumentResponse}
// @Router       /finance/invoices [post]
func (h *DocumentHandler) CreateInvoice(c *gin.Context) { h.create(c, h.invoices()) }

// IssueInvoice godoc
// @Summary      Issue an invoice
// @Description  Moves a DRAFT invoice to SENT.
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.DocumentResponse}
// @Failure      400 {object} dto.Response "ILLEGAL_TRANSITION"
// @Router       /finance/invoices/{id}/issue [post]
func (h *DocumentHandler) IssueInvoice(c *gin.Context) { h.issue(c, h.invoices()) }

// CancelInvoice godoc
// @Summary      Cancel an invoice
// @Description  Only DRAFT or SENT invoices can be cancelled. A reason is required.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body financeapp.CancelRequest true "Reason"
// @Success      200 {object} dto.Response{data=financeapp.DocumentResponse}
// @Router       /finance/invoices/{id}/cancel [post]
func (h *DocumentHandler) CancelInvoice(c *gin.Context) { h.cancel(c, h.invoices()) }

// GetInvoice returns one invoice
func (h *DocumentHandler) GetInvoice(c *gin.Context) { h.get(c, h.invoices()) }

// ListInvoices lists invoices filtered by status, search and issue date
func (h *DocumentHandler) ListInvoices(c *gin.Context) { h.list(c, h.invoices()) }

// CreateBill creates a DRAFT bill (BIL####); party is the supplier
func (h *DocumentHandler) CreateBill(c *gin.Context) { h.create(c, h.bills()) }

// IssueBill moves a DRAFT bill to SENT
func (h *DocumentHandler) IssueBill(c *gin.Context) { h.issue(c, h.bills()) }

// CancelBill cancels a DRAFT or SENT bill
func (h *DocumentHandler) CancelBill(c *gin.Context) { h.cancel(c, h.bills()) }

// GetBill returns one bill
func (h *DocumentHandler) GetBill(c *gin.Context) { h.get(c, h.bills()) }

// ListBills lists bills filtered by status, search and issue date
func (h *DocumentHandler) ListBills(c *gin.Context) { h.list(c, h.bills()) }

func (h *DocumentHandler) create(c *gin.Context, ops documentOps) {
	var req financeapp.CreateDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	doc, err := ops.create(c.Request.Context(), middleware.GetTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

func (h *DocumentHandler) issue(c *gin.Context, ops documentOps) {
	id, ok := h.pathID(c, ops.entity)
	if !ok {
		return
	}
	doc, err := ops.issue(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

func (h *DocumentHandler) cancel(c *gin.Context, ops documentOps) {
	id, ok := h.pathID(c, ops.entity)
	if !ok {
		return
	}
	var req financeapp.CancelRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Actor = middleware.GetUserID(c)

	doc, err := ops.cancel(c.Request.Context(), middleware.GetTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

func (h *DocumentHandler) get(c *gin.Context, ops documentOps) {
	id, ok := h.pathID(c, ops.entity)
	if !ok {
		return
	}
	doc, err := ops.get(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

func (h *DocumentHandler) list(c *gin.Context, ops documentOps) {
	var filter financeapp.DocumentListFilter
	if !bindQuery(c, &filter) {
		return
	}
	docs, total, err := ops.list(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, docs, total, p, size)
}
