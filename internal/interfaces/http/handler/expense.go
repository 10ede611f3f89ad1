package handler

import (
	financeapp "github.com/erp/ledger/internal/application/finance"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ExpenseHandler handles expense records and their approval workflow
type ExpenseHandler struct {
	BaseHandler
	expenseService *financeapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *financeapp.ExpenseService, metrics *telemetry.LedgerMetrics) *ExpenseHandler {
	return &ExpenseHandler{
		BaseHandler:    BaseHandler{metrics: metrics},
		expenseService: expenseService,
	}
}

// Create godoc
// @Summary      Create an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateExpenseRequest true "Expense"
// @Success      201 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Router       /finance/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req financeapp.CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), middleware.GetTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// UpdateStatus godoc
// @Summary      Move an expense to a new status
// @Description  PENDING goes to APPROVED, REJECTED (reason required) or CANCELLED; APPROVED goes to PAID or CANCELLED.
// @Description  Paying an expense linked to a petty-cash account disburses from it in the same transaction.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body financeapp.UpdateExpenseStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseStatusResult}
// @Failure      400 {object} dto.Response "ILLEGAL_TRANSITION, INSUFFICIENT_BALANCE"
// @Router       /finance/expenses/{id}/status [put]
func (h *ExpenseHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "expense")
	if !ok {
		return
	}
	var req financeapp.UpdateExpenseStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Actor = middleware.GetUserID(c)

	result, err := h.expenseService.UpdateExpenseStatus(c.Request.Context(), middleware.GetTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Get returns one expense
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "expense")
	if !ok {
		return
	}
	expense, err := h.expenseService.GetExpense(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// List lists expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	var filter financeapp.ExpenseListFilter
	if !bindQuery(c, &filter) {
		return
	}
	accountID, ok := h.queryID(c, "petty_cash_account_id")
	if !ok {
		return
	}
	filter.PettyCashAccountID = accountID

	expenses, total, err := h.expenseService.ListExpenses(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, expenses, total, p, size)
}
