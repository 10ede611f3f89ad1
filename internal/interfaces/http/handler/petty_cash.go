package handler

import (
	financeapp "github.com/erp/ledger/internal/application/finance"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// PettyCashHandler manages petty-cash accounts and their transactions
type PettyCashHandler struct {
	BaseHandler
	pettyCashService *financeapp.PettyCashService
}

// NewPettyCashHandler creates a new PettyCashHandler
func NewPettyCashHandler(pettyCashService *financeapp.PettyCashService, metrics *telemetry.LedgerMetrics) *PettyCashHandler {
	return &PettyCashHandler{
		BaseHandler:      BaseHandler{metrics: metrics},
		pettyCashService: pettyCashService,
	}
}

// CreateAccount godoc
// @Summary      Create a petty-cash account
// @Tags         petty-cash
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreatePettyCashAccountRequest true "Account"
// @Success      201 {object} dto.Response{data=financeapp.PettyCashAccountResponse}
// @Failure      400 {object} dto.Response "LIMIT_EXCEEDED when the opening balance is above max_limit"
// @Router       /finance/petty-cash/accounts [post]
func (h *PettyCashHandler) CreateAccount(c *gin.Context) {
	var req financeapp.CreatePettyCashAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	account, err := h.pettyCashService.CreatePettyCashAccount(c.Request.Context(), middleware.GetTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// GetAccount returns one petty-cash account
func (h *PettyCashHandler) GetAccount(c *gin.Context) {
	id, ok := h.pathID(c, "account")
	if !ok {
		return
	}
	account, err := h.pettyCashService.GetPettyCashAccount(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// ListAccounts lists petty-cash accounts
func (h *PettyCashHandler) ListAccounts(c *gin.Context) {
	var filter financeapp.PettyCashAccountListFilter
	if !bindQuery(c, &filter) {
		return
	}
	accounts, total, err := h.pettyCashService.ListPettyCashAccounts(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, accounts, total, p, size)
}

// DeactivateAccount stops an account from taking new transactions
func (h *PettyCashHandler) DeactivateAccount(c *gin.Context) {
	id, ok := h.pathID(c, "account")
	if !ok {
		return
	}
	account, err := h.pettyCashService.DeactivatePettyCashAccount(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// CreateTransaction godoc
// @Summary      Record a petty-cash transaction
// @Description  REPLENISHMENT adds, DISBURSEMENT subtracts, ADJUSTMENT applies a signed delta.
// @Description  A balance left below min_balance is reported in warnings and does not block.
// @Tags         petty-cash
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplicates retries"
// @Param        request body financeapp.CreatePettyCashTransactionRequest true "Transaction"
// @Success      201 {object} dto.Response{data=financeapp.PettyCashTransactionResult}
// @Failure      400 {object} dto.Response "INSUFFICIENT_BALANCE, LIMIT_EXCEEDED"
// @Router       /finance/petty-cash/transactions [post]
func (h *PettyCashHandler) CreateTransaction(c *gin.Context) {
	var req financeapp.CreatePettyCashTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	result, err := h.pettyCashService.CreatePettyCashTransaction(c.Request.Context(), middleware.GetTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListTransactions lists petty-cash transactions, optionally for one account
func (h *PettyCashHandler) ListTransactions(c *gin.Context) {
	var filter financeapp.PettyCashTransactionListFilter
	if !bindQuery(c, &filter) {
		return
	}
	accountID, ok := h.queryID(c, "account_id")
	if !ok {
		return
	}
	filter.AccountID = accountID
	h.listTransactions(c, filter)
}

// ListAccountTransactions lists the transactions of the account in the path
func (h *PettyCashHandler) ListAccountTransactions(c *gin.Context) {
	id, ok := h.pathID(c, "account")
	if !ok {
		return
	}
	var filter financeapp.PettyCashTransactionListFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.AccountID = &id
	h.listTransactions(c, filter)
}

func (h *PettyCashHandler) listTransactions(c *gin.Context, filter financeapp.PettyCashTransactionListFilter) {
	txs, total, err := h.pettyCashService.ListPettyCashTransactions(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, txs, total, p, size)
}
