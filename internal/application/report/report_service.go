package report

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/report"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportService provides read-only roll-ups and the ledger reconciliation check.
// It never takes row locks and never corrects what it finds.
type ReportService struct {
	repo   report.LedgerReportRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(repo report.LedgerReportRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, logger: logger, now: time.Now}
}

// SummarizePayments returns payment totals grouped by status and by method
func (s *ReportService) SummarizePayments(ctx context.Context, tenantID uuid.UUID, req SummaryRequest) (*PaymentSummaryResponse, error) {
	filter, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.SumPaymentsByStatus(ctx, tenantID, filter)
	if err != nil {
		return nil, shared.WrapPersistenceError("sum payments by status", err)
	}
	byMethod, err := s.repo.SumPaymentsByMethod(ctx, tenantID, filter)
	if err != nil {
		return nil, shared.WrapPersistenceError("sum payments by method", err)
	}
	return &PaymentSummaryResponse{
		Period:   periodOf(req),
		ByStatus: newGroupedSummary(byStatus),
		ByMethod: newGroupedSummary(byMethod),
	}, nil
}

// SummarizeInvoices returns invoice count, total, paid and due per status
func (s *ReportService) SummarizeInvoices(ctx context.Context, tenantID uuid.UUID, req SummaryRequest) (*DocumentSummaryResponse, error) {
	filter, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.SumInvoicesByStatus(ctx, tenantID, filter)
	if err != nil {
		return nil, shared.WrapPersistenceError("sum invoices", err)
	}
	resp := newDocumentSummary(periodOf(req), rows)
	return &resp, nil
}

// SummarizeBills returns bill count, total, paid and due per status
func (s *ReportService) SummarizeBills(ctx context.Context, tenantID uuid.UUID, req SummaryRequest) (*DocumentSummaryResponse, error) {
	filter, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.SumBillsByStatus(ctx, tenantID, filter)
	if err != nil {
		return nil, shared.WrapPersistenceError("sum bills", err)
	}
	resp := newDocumentSummary(periodOf(req), rows)
	return &resp, nil
}

// SummarizePettyCash returns net petty cash flow per transaction type
func (s *ReportService) SummarizePettyCash(ctx context.Context, tenantID uuid.UUID, req SummaryRequest) (*PettyCashSummaryResponse, error) {
	filter, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.SumPettyCashByType(ctx, tenantID, filter)
	if err != nil {
		return nil, shared.WrapPersistenceError("sum petty cash", err)
	}
	return &PettyCashSummaryResponse{
		Period:    periodOf(req),
		AccountID: req.AccountID,
		ByType:    newGroupedSummary(rows),
	}, nil
}

// SummarizeExpenses returns expense totals by status and by category
func (s *ReportService) SummarizeExpenses(ctx context.Context, tenantID uuid.UUID, req SummaryRequest) (*ExpenseSummaryResponse, error) {
	filter, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.SumExpensesByStatus(ctx, tenantID, filter)
	if err != nil {
		return nil, shared.WrapPersistenceError("sum expenses by status", err)
	}
	byCategory, err := s.repo.SumExpensesByCategory(ctx, tenantID, filter)
	if err != nil {
		return nil, shared.WrapPersistenceError("sum expenses by category", err)
	}
	return &ExpenseSummaryResponse{
		Period:     periodOf(req),
		ByStatus:   newGroupedSummary(byStatus),
		ByCategory: newGroupedSummary(byCategory),
	}, nil
}

// SummarizeStockMovements returns the net stock effect per movement type
func (s *ReportService) SummarizeStockMovements(ctx context.Context, tenantID uuid.UUID, req SummaryRequest) (*StockMovementSummaryResponse, error) {
	filter, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.SumStockMovementsByType(ctx, tenantID, filter)
	if err != nil {
		return nil, shared.WrapPersistenceError("sum stock movements", err)
	}
	return &StockMovementSummaryResponse{Period: periodOf(req), ByType: newGroupedSummary(rows)}, nil
}

// VerifyLedger recomputes every cached balance of the tenant from its ledger
// and reports the entities that disagree.
func (s *ReportService) VerifyLedger(ctx context.Context, tenantID uuid.UUID) (*VerificationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "verify_ledger")
	defer span.End()

	checks := []struct {
		name string
		run  func(context.Context, uuid.UUID) ([]report.LedgerMismatch, error)
	}{
		{"stock", s.repo.FindStockMismatches},
		{"petty cash", s.repo.FindPettyCashMismatches},
		{"invoices", s.repo.FindInvoiceMismatches},
		{"bills", s.repo.FindBillMismatches},
	}

	mismatches := []report.LedgerMismatch{}
	for _, c := range checks {
		found, err := c.run(ctx, tenantID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, shared.WrapPersistenceError("verify "+c.name, err)
		}
		mismatches = append(mismatches, found...)
	}

	if len(mismatches) > 0 {
		s.logger.Warn("ledger mismatches found",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("count", len(mismatches)),
		)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrMismatches, len(mismatches))

	return &VerificationResult{
		TenantID:   tenantID,
		CheckedAt:  s.now(),
		Consistent: len(mismatches) == 0,
		Mismatches: mismatches,
	}, nil
}

func periodOf(req SummaryRequest) Period {
	return Period{From: req.From, To: req.To}
}
