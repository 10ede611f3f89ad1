package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/report"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLedgerReportRepository struct {
	mock.Mock
}

func (m *MockLedgerReportRepository) groups(args mock.Arguments) ([]report.GroupTotal, error) {
	if rows := args.Get(0); rows != nil {
		return rows.([]report.GroupTotal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerReportRepository) mismatches(args mock.Arguments) ([]report.LedgerMismatch, error) {
	if rows := args.Get(0); rows != nil {
		return rows.([]report.LedgerMismatch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerReportRepository) documents(args mock.Arguments) ([]report.DocumentStatusTotal, error) {
	if rows := args.Get(0); rows != nil {
		return rows.([]report.DocumentStatusTotal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerReportRepository) SumPaymentsByStatus(ctx context.Context, tenantID uuid.UUID, f report.SummaryFilter) ([]report.GroupTotal, error) {
	return m.groups(m.Called(ctx, tenantID, f))
}

func (m *MockLedgerReportRepository) SumPaymentsByMethod(ctx context.Context, tenantID uuid.UUID, f report.SummaryFilter) ([]report.GroupTotal, error) {
	return m.groups(m.Called(ctx, tenantID, f))
}

func (m *MockLedgerReportRepository) SumInvoicesByStatus(ctx context.Context, tenantID uuid.UUID, f report.SummaryFilter) ([]report.DocumentStatusTotal, error) {
	return m.documents(m.Called(ctx, tenantID, f))
}

func (m *MockLedgerReportRepository) SumBillsByStatus(ctx context.Context, tenantID uuid.UUID, f report.SummaryFilter) ([]report.DocumentStatusTotal, error) {
	return m.documents(m.Called(ctx, tenantID, f))
}

func (m *MockLedgerReportRepository) SumPettyCashByType(ctx context.Context, tenantID uuid.UUID, f report.SummaryFilter) ([]report.GroupTotal, error) {
	return m.groups(m.Called(ctx, tenantID, f))
}

func (m *MockLedgerReportRepository) SumExpensesByStatus(ctx context.Context, tenantID uuid.UUID, f report.SummaryFilter) ([]report.GroupTotal, error) {
	return m.groups(m.Called(ctx, tenantID, f))
}

func (m *MockLedgerReportRepository) SumExpensesByCategory(ctx context.Context, tenantID uuid.UUID, f report.SummaryFilter) ([]report.GroupTotal, error) {
	return m.groups(m.Called(ctx, tenantID, f))
}

func (m *MockLedgerReportRepository) SumStockMovementsByType(ctx context.Context, tenantID uuid.UUID, f report.SummaryFilter) ([]report.GroupTotal, error) {
	return m.groups(m.Called(ctx, tenantID, f))
}

func (m *MockLedgerReportRepository) FindStockMismatches(ctx context.Context, tenantID uuid.UUID) ([]report.LedgerMismatch, error) {
	return m.mismatches(m.Called(ctx, tenantID))
}

func (m *MockLedgerReportRepository) FindPettyCashMismatches(ctx context.Context, tenantID uuid.UUID) ([]report.LedgerMismatch, error) {
	return m.mismatches(m.Called(ctx, tenantID))
}

func (m *MockLedgerReportRepository) FindInvoiceMismatches(ctx context.Context, tenantID uuid.UUID) ([]report.LedgerMismatch, error) {
	return m.mismatches(m.Called(ctx, tenantID))
}

func (m *MockLedgerReportRepository) FindBillMismatches(ctx context.Context, tenantID uuid.UUID) ([]report.LedgerMismatch, error) {
	return m.mismatches(m.Called(ctx, tenantID))
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReportService_SummarizePayments(t *testing.T) {
	repo := new(MockLedgerReportRepository)
	svc := NewReportService(repo, nil)
	tenantID := uuid.New()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	req := SummaryRequest{From: &from, To: &to}

	repo.On("SumPaymentsByStatus", mock.Anything, tenantID, mock.Anything).Return([]report.GroupTotal{
		{Key: "ACTIVE", Count: 2, Amount: amount("1000")},
		{Key: "CANCELLED", Count: 1, Amount: amount("600")},
	}, nil)
	repo.On("SumPaymentsByMethod", mock.Anything, tenantID, mock.Anything).Return([]report.GroupTotal{
		{Key: "CASH", Count: 1, Amount: amount("400")},
		{Key: "BANK_TRANSFER", Count: 1, Amount: amount("600")},
	}, nil)

	resp, err := svc.SummarizePayments(context.Background(), tenantID, req)
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.ByStatus.TotalCount)
	assert.True(t, resp.ByStatus.TotalAmount.Equal(amount("1600")))
	assert.True(t, resp.ByMethod.TotalAmount.Equal(amount("1000")))
	assert.Equal(t, &from, resp.Period.From)
	repo.AssertExpectations(t)
}

func TestReportService_SummarizeRejectsInvertedRange(t *testing.T) {
	repo := new(MockLedgerReportRepository)
	svc := NewReportService(repo, nil)
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.SummarizeExpenses(context.Background(), uuid.New(), SummaryRequest{From: &from, To: &to})

	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	repo.AssertNotCalled(t, "SumExpensesByStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_SummarizeInvoices_Totals(t *testing.T) {
	repo := new(MockLedgerReportRepository)
	svc := NewReportService(repo, nil)
	tenantID := uuid.New()

	repo.On("SumInvoicesByStatus", mock.Anything, tenantID, mock.Anything).Return([]report.DocumentStatusTotal{
		{Status: "PAID", Count: 1, Total: amount("1000"), Paid: amount("1000"), Due: amount("0")},
		{Status: "PARTIALLY_PAID", Count: 2, Total: amount("500"), Paid: amount("200"), Due: amount("300")},
	}, nil)

	resp, err := svc.SummarizeInvoices(context.Background(), tenantID, SummaryRequest{})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.TotalCount)
	assert.True(t, resp.Total.Equal(amount("1500")))
	assert.True(t, resp.Paid.Equal(amount("1200")))
	assert.True(t, resp.Due.Equal(amount("300")))
}

func TestReportService_SummarizeBills_EmptyIsNotNil(t *testing.T) {
	repo := new(MockLedgerReportRepository)
	svc := NewReportService(repo, nil)
	repo.On("SumBillsByStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	resp, err := svc.SummarizeBills(context.Background(), uuid.New(), SummaryRequest{})
	require.NoError(t, err)

	assert.NotNil(t, resp.ByStatus)
	assert.Empty(t, resp.ByStatus)
	assert.True(t, resp.Total.IsZero())
}

func TestReportService_SummarizePettyCash_PassesAccount(t *testing.T) {
	repo := new(MockLedgerReportRepository)
	svc := NewReportService(repo, nil)
	tenantID := uuid.New()
	accountID := uuid.New()

	repo.On("SumPettyCashByType", mock.Anything, tenantID, mock.MatchedBy(func(f report.SummaryFilter) bool {
		return f.AccountID != nil && *f.AccountID == accountID
	})).Return([]report.GroupTotal{
		{Key: "REPLENISHMENT", Count: 1, Amount: amount("500")},
		{Key: "DISBURSEMENT", Count: 2, Amount: amount("-300")},
	}, nil)

	resp, err := svc.SummarizePettyCash(context.Background(), tenantID, SummaryRequest{AccountID: &accountID})
	require.NoError(t, err)

	assert.True(t, resp.ByType.TotalAmount.Equal(amount("200")))
	assert.Equal(t, &accountID, resp.AccountID)
	repo.AssertExpectations(t)
}

func TestReportService_SummarizeStockMovements_WrapsErrors(t *testing.T) {
	repo := new(MockLedgerReportRepository)
	svc := NewReportService(repo, nil)
	repo.On("SumStockMovementsByType", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := svc.SummarizeStockMovements(context.Background(), uuid.New(), SummaryRequest{})

	assert.True(t, errors.Is(err, shared.ErrPersistence))
}

func TestReportService_VerifyLedger(t *testing.T) {
	t.Run("consistent", func(t *testing.T) {
		repo := new(MockLedgerReportRepository)
		svc := NewReportService(repo, nil)
		tenantID := uuid.New()
		for _, m := range []string{"FindStockMismatches", "FindPettyCashMismatches", "FindInvoiceMismatches", "FindBillMismatches"} {
			repo.On(m, mock.Anything, tenantID).Return(nil, nil)
		}

		result, err := svc.VerifyLedger(context.Background(), tenantID)
		require.NoError(t, err)

		assert.True(t, result.Consistent)
		assert.NotNil(t, result.Mismatches)
		assert.Empty(t, result.Mismatches)
	})

	t.Run("collects mismatches from every ledger", func(t *testing.T) {
		repo := new(MockLedgerReportRepository)
		svc := NewReportService(repo, nil)
		tenantID := uuid.New()
		stock := report.NewLedgerMismatch(report.EntityInventoryItem, uuid.New(), "ITM0001", report.FieldCurrentStock, amount("90"), amount("100"))
		bill := report.NewLedgerMismatch(report.EntityBill, uuid.New(), "BIL0001", report.FieldBalanceDue, amount("10"), amount("0"))

		repo.On("FindStockMismatches", mock.Anything, tenantID).Return([]report.LedgerMismatch{stock}, nil)
		repo.On("FindPettyCashMismatches", mock.Anything, tenantID).Return(nil, nil)
		repo.On("FindInvoiceMismatches", mock.Anything, tenantID).Return(nil, nil)
		repo.On("FindBillMismatches", mock.Anything, tenantID).Return([]report.LedgerMismatch{bill}, nil)

		result, err := svc.VerifyLedger(context.Background(), tenantID)
		require.NoError(t, err)

		assert.False(t, result.Consistent)
		require.Len(t, result.Mismatches, 2)
		assert.Equal(t, report.EntityInventoryItem, result.Mismatches[0].EntityType)
		assert.Equal(t, report.EntityBill, result.Mismatches[1].EntityType)
	})

	t.Run("stops on repository failure", func(t *testing.T) {
		repo := new(MockLedgerReportRepository)
		svc := NewReportService(repo, nil)
		repo.On("FindStockMismatches", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

		_, err := svc.VerifyLedger(context.Background(), uuid.New())

		assert.True(t, errors.Is(err, shared.ErrPersistence))
		repo.AssertNotCalled(t, "FindPettyCashMismatches", mock.Anything, mock.Anything)
	})
}
