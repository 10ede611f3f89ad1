package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	financeapp "github.com/erp/ledger/internal/application/finance"
	inventoryapp "github.com/erp/ledger/internal/application/inventory"
	reportapp "github.com/erp/ledger/internal/application/report"
	"github.com/erp/ledger/internal/domain/inventory"
	"github.com/erp/ledger/internal/infrastructure/cache"
	"github.com/erp/ledger/internal/infrastructure/config"
	infraevent "github.com/erp/ledger/internal/infrastructure/event"
	"github.com/erp/ledger/internal/infrastructure/persistence"
	"github.com/erp/ledger/internal/interfaces/http/handler"
	"github.com/erp/ledger/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string         `json:"code"`
		Message   string         `json:"message"`
		Details   map[string]any `json:"details"`
		RequestID string         `json:"request_id"`
	} `json:"error"`
	Meta *struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

type api struct {
	t        *testing.T
	engine   *gin.Engine
	events   *testutil.EventRecorder
	tenantID uuid.UUID
	userID   uuid.UUID
}

func newAPI(t *testing.T) *api {
	t.Helper()

	db := testutil.NewLedgerDB(t)

	stock := inventoryapp.NewInventoryService(
		persistence.NewGormInventoryItemRepository(db),
		persistence.NewGormStockMovementRepository(db),
		persistence.NewGormInventoryTransactionScope(db),
		nil,
	)
	scope := persistence.NewGormFinanceTransactionScope(db)
	documents := financeapp.NewDocumentService(persistence.NewGormInvoiceRepository(db), persistence.NewGormBillRepository(db), scope, nil)
	payments := financeapp.NewPaymentService(persistence.NewGormPaymentRepository(db), scope, nil)
	pettyCash := financeapp.NewPettyCashService(
		persistence.NewGormPettyCashAccountRepository(db),
		persistence.NewGormPettyCashTransactionRepository(db),
		scope,
		nil,
	)
	expenses := financeapp.NewExpenseService(persistence.NewGormExpenseRepository(db), scope, nil)
	reports := reportapp.NewReportService(persistence.NewGormLedgerReportRepository(db), nil)

	events := testutil.NewEventRecorder()
	bus := infraevent.NewBus(nil)
	bus.Subscribe(events)
	stock.SetEventPublisher(bus)
	documents.SetEventPublisher(bus)
	payments.SetEventPublisher(bus)
	pettyCash.SetEventPublisher(bus)
	expenses.SetEventPublisher(bus)

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { store.Close() })

	engine, err := NewEngine(Options{
		HTTP:             config.HTTPConfig{MaxBodySize: 1 << 20},
		IdempotencyStore: store,
		IdempotencyTTL:   time.Hour,
	}, Handlers{
		Inventory: handler.NewInventoryHandler(stock, nil),
		Documents: handler.NewDocumentHandler(documents, nil),
		Payments:  handler.NewPaymentHandler(payments, nil),
		PettyCash: handler.NewPettyCashHandler(pettyCash, nil),
		Expenses:  handler.NewExpenseHandler(expenses, nil),
		Reports:   handler.NewReportHandler(reports, nil),
		System:    handler.NewSystemHandler(&persistence.Database{DB: db}, nil, "erp-ledger", "test"),
	})
	require.NoError(t, err)

	return &api{t: t, engine: engine, events: events, tenantID: uuid.New(), userID: uuid.New()}
}

func (a *api) send(method, path, body string, headers ...string) (int, envelope) {
	a.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Tenant-ID", a.tenantID.String())
	req.Header.Set("X-User-ID", a.userID.String())
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

// must sends a request that has to succeed with want and decodes its data into out
func (a *api) must(want int, method, path, body string, out any) {
	a.t.Helper()
	status, env := a.send(method, path, body)
	require.Equal(a.t, want, status, "%s %s: %+v", method, path, env.Error)
	if out != nil {
		require.NoError(a.t, json.Unmarshal(env.Data, out))
	}
}

func (a *api) rejects(wantStatus int, wantCode, method, path, body string) envelope {
	a.t.Helper()
	status, env := a.send(method, path, body)
	require.Equal(a.t, wantStatus, status)
	require.NotNil(a.t, env.Error)
	assert.False(a.t, env.Success)
	assert.Equal(a.t, wantCode, env.Error.Code)
	assert.NotEmpty(a.t, env.Error.RequestID)
	return env
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAPI_StockLedger(t *testing.T) {
	a := newAPI(t)

	var item inventoryapp.ItemResponse
	a.must(http.StatusCreated, http.MethodPost, "/api/v1/inventory/items",
		`{"name":"Cotton yarn 30s","unit":"kg","opening_stock":"100","reorder_level":"20"}`, &item)
	assert.Equal(t, "ITM0001", item.Code)

	var issue inventoryapp.StockMovementResponse
	a.must(http.StatusCreated, http.MethodPost, "/api/v1/inventory/movements",
		`{"item_id":"`+item.ID.String()+`","movement_type":"ISSUE","quantity":"30"}`, &issue)
	assert.True(t, issue.BalanceBefore.Equal(amount("100")))
	assert.True(t, issue.BalanceAfter.Equal(amount("70")))
	assert.Equal(t, &a.userID, issue.CreatedBy)

	env := a.rejects(http.StatusBadRequest, "INSUFFICIENT_STOCK", http.MethodPost, "/api/v1/inventory/movements",
		`{"item_id":"`+item.ID.String()+`","movement_type":"ISSUE","quantity":"100"}`)
	assert.Equal(t, "quantity", env.Error.Details["field"])

	var adjust inventoryapp.StockMovementResponse
	a.must(http.StatusCreated, http.MethodPost, "/api/v1/inventory/movements",
		`{"item_id":"`+item.ID.String()+`","movement_type":"ADJUSTMENT","quantity":"64"}`, &adjust)
	assert.True(t, adjust.BalanceAfter.Equal(amount("64")))

	var got inventoryapp.ItemResponse
	a.must(http.StatusOK, http.MethodGet, "/api/v1/inventory/items/"+item.ID.String(), "", &got)
	assert.True(t, got.CurrentStock.Equal(amount("64")))

	status, list := a.send(http.MethodGet, "/api/v1/inventory/items/"+item.ID.String()+"/movements", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(2), list.Meta.Total)

	a.rejects(http.StatusBadRequest, "BAD_REQUEST", http.MethodGet, "/api/v1/inventory/movements?item_id=nope", "")

	// the rejected issue rolled back and published nothing
	assert.Equal(t, 2, a.events.Count(inventory.EventTypeStockMovementRecorded))
}

func TestAPI_InvoicePayments(t *testing.T) {
	a := newAPI(t)

	var voided financeapp.DocumentResponse
	a.must(http.StatusCreated, http.MethodPost, "/api/v1/finance/invoices",
		`{"party":"Sunrise Garments","total_amount":"250"}`, &voided)
	a.must(http.StatusOK, http.MethodPost, "/api/v1/finance/invoices/"+voided.ID.String()+"/cancel",
		`{"reason":"duplicate order"}`, &voided)
	assert.Equal(t, "CANCELLED", voided.Status)
	a.rejects(http.StatusBadRequest, "ILLEGAL_TRANSITION", http.MethodPost, "/api/v1/finance/payments",
		`{"invoice_id":"`+voided.ID.String()+`","amount":"100"}`)

	var inv financeapp.DocumentResponse
	a.must(http.StatusCreated, http.MethodPost, "/api/v1/finance/invoices",
		`{"party":"Sunrise Garments","total_amount":"1000"}`, &inv)
	assert.Equal(t, "DRAFT", inv.Status)
	assert.Equal(t, "INV0002", inv.Code)

	payment := func(amt string) string {
		return `{"invoice_id":"` + inv.ID.String() + `","amount":"` + amt + `","method":"BANK_TRANSFER"}`
	}

	a.must(http.StatusOK, http.MethodPost, "/api/v1/finance/invoices/"+inv.ID.String()+"/issue", "", &inv)
	assert.Equal(t, "SENT", inv.Status)

	var first financeapp.PaymentResult
	a.must(http.StatusCreated, http.MethodPost, "/api/v1/finance/payments", payment("400"), &first)
	assert.Equal(t, "PARTIALLY_PAID", first.Document.Status)
	assert.True(t, first.Document.BalanceDue.Equal(amount("600")))
	assert.True(t, first.Payment.BalanceDueBefore.Equal(amount("1000")))

	a.rejects(http.StatusBadRequest, "EXCEEDS_BALANCE_DUE", http.MethodPost, "/api/v1/finance/payments", payment("700"))

	var second financeapp.PaymentResult
	a.must(http.StatusCreated, http.MethodPost, "/api/v1/finance/payments", payment("600"), &second)
	assert.Equal(t, "PAID", second.Document.Status)
	assert.True(t, second.Document.BalanceDue.IsZero())

	a.rejects(http.StatusBadRequest, "ILLEGAL_TRANSITION", http.MethodPost,
		"/api/v1/finance/invoices/"+inv.ID.String()+"/cancel", `{"reason":"customer dispute"}`)

	var reversed financeapp.PaymentResult
	a.must(http.StatusOK, http.MethodPost, "/api/v1/finance/payments/"+first.Payment.ID.String()+"/cancel",
		`{"reason":"bounced transfer"}`, &reversed)
	assert.Equal(t, "CANCELLED", reversed.Payment.Status)
	assert.Equal(t, &a.userID, reversed.Payment.CancelledBy)
	assert.Equal(t, "PARTIALLY_PAID", reversed.Document.Status)
	assert.True(t, reversed.Document.BalanceDue.Equal(amount("400")))

	status, list := a.send(http.MethodGet, "/api/v1/finance/payments?status=ACTIVE&invoice_id="+inv.ID.String(), "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), list.Meta.Total)

	var summary reportapp.PaymentSummaryResponse
	a.must(http.StatusOK, http.MethodGet, "/api/v1/reports/payments", "", &summary)

	var verify reportapp.VerificationResult
	a.must(http.StatusOK, http.MethodGet, "/api/v1/reports/verify", "", &verify)
	assert.True(t, verify.Consistent)
	assert.Empty(t, verify.Mismatches)
}

func TestAPI_PaymentTargetAndValidation(t *testing.T) {
	a := newAPI(t)

	env := a.rejects(http.StatusBadRequest, "VALIDATION_ERROR", http.MethodPost, "/api/v1/finance/payments",
		`{"invoice_id":"`+uuid.NewString()+`","amount":"0"}`)
	fields, ok := env.Error.Details["fields"].([]any)
	require.True(t, ok)
	require.Len(t, fields, 1)
	assert.Equal(t, "amount", fields[0].(map[string]any)["field"])

	a.rejects(http.StatusBadRequest, "INVALID_PAYMENT_TARGET", http.MethodPost, "/api/v1/finance/payments",
		`{"invoice_id":"`+uuid.NewString()+`","bill_id":"`+uuid.NewString()+`","amount":"10"}`)

	a.rejects(http.StatusBadRequest, "INVALID_JSON", http.MethodPost, "/api/v1/finance/payments", `{"amount":`)
}

func TestAPI_PettyCashAndExpenses(t *testing.T) {
	a := newAPI(t)

	var acct financeapp.PettyCashAccountResponse
	a.must(http.StatusCreated, http.MethodPost, "/api/v1/finance/petty-cash/accounts",
		`{"name":"Dyeing floor float","initial_balance":"500","max_limit":"1000","min_balance":"100"}`, &acct)
	assert.Equal(t, "PCA001", acct.Code)

	tx := func(kind, amt string) string {
		return `{"account_id":"` + acct.ID.String() + `","transaction_type":"` + kind + `","amount":"` + amt + `"}`
	}

	var low financeapp.PettyCashTransactionResult
	a.must(http.StatusCreated, http.MethodPost, "/api/v1/finance/petty-cash/transactions", tx("DISBURSEMENT", "450"), &low)
	assert.True(t, low.Account.CurrentBalance.Equal(amount("50")))
	require.Len(t, low.Warnings, 1)
	assert.Equal(t, "LOW_BALANCE", low.Warnings[0].Code)

	a.rejects(http.StatusBadRequest, "INSUFFICIENT_BALANCE", http.MethodPost, "/api/v1/finance/petty-cash/transactions", tx("DISBURSEMENT", "51"))
	a.rejects(http.StatusBadRequest, "LIMIT_EXCEEDED", http.MethodPost, "/api/v1/finance/petty-cash/transactions", tx("REPLENISHMENT", "951"))

	var expense financeapp.ExpenseResponse
	a.must(http.StatusCreated, http.MethodPost, "/api/v1/finance/expenses",
		`{"category":"courier","amount":"30","petty_cash_account_id":"`+acct.ID.String()+`"}`, &expense)
	assert.Equal(t, "PENDING", expense.Status)

	path := "/api/v1/finance/expenses/" + expense.ID.String() + "/status"
	a.rejects(http.StatusBadRequest, "ILLEGAL_TRANSITION", http.MethodPut, path, `{"status":"PAID"}`)
	a.must(http.StatusOK, http.MethodPut, path, `{"status":"APPROVED"}`, nil)

	var paid financeapp.ExpenseStatusResult
	a.must(http.StatusOK, http.MethodPut, path, `{"status":"PAID"}`, &paid)
	assert.Equal(t, "PAID", paid.Expense.Status)
	require.NotNil(t, paid.Transaction)
	assert.True(t, paid.Transaction.BalanceAfter.Equal(amount("20")))

	status, list := a.send(http.MethodGet, "/api/v1/finance/petty-cash/accounts/"+acct.ID.String()+"/transactions", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(2), list.Meta.Total)

	var verify reportapp.VerificationResult
	a.must(http.StatusOK, http.MethodGet, "/api/v1/reports/verify", "", &verify)
	assert.True(t, verify.Consistent)
}

func TestAPI_TenantIdentity(t *testing.T) {
	a := newAPI(t)

	var item inventoryapp.ItemResponse
	a.must(http.StatusCreated, http.MethodPost, "/api/v1/inventory/items", `{"name":"Poly blend"}`, &item)

	other := *a
	other.tenantID = uuid.New()
	status, env := other.send(http.MethodGet, "/api/v1/inventory/items/"+item.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "INVENTORY_ITEM_NOT_FOUND", env.Error.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/items", nil)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_IdempotentPayment(t *testing.T) {
	a := newAPI(t)

	var inv financeapp.DocumentResponse
	a.must(http.StatusCreated, http.MethodPost, "/api/v1/finance/invoices", `{"party":"Loom Works","total_amount":"300"}`, &inv)
	a.must(http.StatusOK, http.MethodPost, "/api/v1/finance/invoices/"+inv.ID.String()+"/issue", "", nil)

	body := `{"invoice_id":"` + inv.ID.String() + `","amount":"100"}`
	status, _ := a.send(http.MethodPost, "/api/v1/finance/payments", body, "Idempotency-Key", "pay-42")
	require.Equal(t, http.StatusCreated, status)
	status, env := a.send(http.MethodPost, "/api/v1/finance/payments", body, "Idempotency-Key", "pay-42")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_REQUEST", env.Error.Code)

	a.must(http.StatusOK, http.MethodGet, "/api/v1/finance/invoices/"+inv.ID.String(), "", &inv)
	assert.True(t, inv.BalanceDue.Equal(amount("200")))
}

func TestAPI_Health(t *testing.T) {
	a := newAPI(t)

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body handler.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "ok", body.Database)
	assert.Equal(t, "disabled", body.Redis)
	assert.NotNil(t, body.Pool)
}
