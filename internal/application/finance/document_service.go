package finance

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentService manages the lifecycle of invoices (receivables) and bills (payables).
// Balances on both only change through PaymentService.
type DocumentService struct {
	serviceBase
	invoiceRepo finance.InvoiceRepository
	billRepo    finance.BillRepository
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	invoiceRepo finance.InvoiceRepository,
	billRepo finance.BillRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		serviceBase: newServiceBase(txScope, logger),
		invoiceRepo: invoiceRepo,
		billRepo:    billRepo,
	}
}

func issueDateOrNow(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return time.Now()
	}
	return *t
}

// CreateInvoice creates a DRAFT invoice
func (s *DocumentService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, req CreateDocumentRequest) (*DocumentResponse, error) {
	var created *finance.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		code, err := shared.NextCode(ctx, repos.CodeSequence(), tenantID, finance.InvoiceCode)
		if err != nil {
			return shared.WrapPersistenceError("next invoice code", err)
		}
		inv, err := finance.NewInvoice(tenantID, code, req.Party, req.TotalAmount, issueDateOrNow(req.IssueDate), req.DueDate)
		if err != nil {
			return err
		}
		inv.Notes = req.Notes
		inv.SetCreatedBy(req.CreatedBy)
		if err := repos.InvoiceRepo().Create(ctx, inv); err != nil {
			return shared.WrapPersistenceError("create invoice", err)
		}
		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(created)
	return &resp, nil
}

// IssueInvoice moves a DRAFT invoice to SENT
func (s *DocumentService) IssueInvoice(ctx context.Context, tenantID, id uuid.UUID) (*DocumentResponse, error) {
	return s.mutateInvoice(ctx, tenantID, id, func(inv *finance.Invoice) error { return inv.Issue() })
}

// CancelInvoice voids an invoice that has received no payment
func (s *DocumentService) CancelInvoice(ctx context.Context, tenantID, id uuid.UUID, req CancelRequest) (*DocumentResponse, error) {
	return s.mutateInvoice(ctx, tenantID, id, func(inv *finance.Invoice) error { return inv.Cancel(req.Reason) })
}

func (s *DocumentService) mutateInvoice(ctx context.Context, tenantID, id uuid.UUID, mutate func(*finance.Invoice) error) (*DocumentResponse, error) {
	var (
		updated   *finance.Invoice
		collector eventCollector
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return shared.WrapPersistenceError("lock invoice", err)
		}
		if err := mutate(inv); err != nil {
			return err
		}
		collector.collect(inv)
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return shared.WrapPersistenceError("save invoice", err)
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, collector.events)
	resp := ToInvoiceResponse(updated)
	return &resp, nil
}

// GetInvoice retrieves an invoice by ID
func (s *DocumentService) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*DocumentResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.WrapPersistenceError("get invoice", err)
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// ListInvoices lists invoices with filtering and pagination
func (s *DocumentService) ListInvoices(ctx context.Context, tenantID uuid.UUID, filter DocumentListFilter) ([]DocumentResponse, int64, error) {
	domainFilter, err := filter.toDomain()
	if err != nil {
		return nil, 0, err
	}
	invoices, total, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistenceError("list invoices", err)
	}
	out := make([]DocumentResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i])
	}
	return out, total, nil
}

// CreateBill creates a DRAFT bill
func (s *DocumentService) CreateBill(ctx context.Context, tenantID uuid.UUID, req CreateDocumentRequest) (*DocumentResponse, error) {
	var created *finance.Bill
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		code, err := shared.NextCode(ctx, repos.CodeSequence(), tenantID, finance.BillCode)
		if err != nil {
			return shared.WrapPersistenceError("next bill code", err)
		}
		bill, err := finance.NewBill(tenantID, code, req.Party, req.TotalAmount, issueDateOrNow(req.IssueDate), req.DueDate)
		if err != nil {
			return err
		}
		bill.Notes = req.Notes
		bill.SetCreatedBy(req.CreatedBy)
		if err := repos.BillRepo().Create(ctx, bill); err != nil {
			return shared.WrapPersistenceError("create bill", err)
		}
		created = bill
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToBillResponse(created)
	return &resp, nil
}

// IssueBill moves a DRAFT bill to SENT
func (s *DocumentService) IssueBill(ctx context.Context, tenantID, id uuid.UUID) (*DocumentResponse, error) {
	return s.mutateBill(ctx, tenantID, id, func(b *finance.Bill) error { return b.Issue() })
}

// CancelBill voids a bill that has received no payment
func (s *DocumentService) CancelBill(ctx context.Context, tenantID, id uuid.UUID, req CancelRequest) (*DocumentResponse, error) {
	return s.mutateBill(ctx, tenantID, id, func(b *finance.Bill) error { return b.Cancel(req.Reason) })
}

func (s *DocumentService) mutateBill(ctx context.Context, tenantID, id uuid.UUID, mutate func(*finance.Bill) error) (*DocumentResponse, error) {
	var (
		updated   *finance.Bill
		collector eventCollector
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		bill, err := repos.BillRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return shared.WrapPersistenceError("lock bill", err)
		}
		if err := mutate(bill); err != nil {
			return err
		}
		collector.collect(bill)
		if err := repos.BillRepo().Save(ctx, bill); err != nil {
			return shared.WrapPersistenceError("save bill", err)
		}
		updated = bill
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, collector.events)
	resp := ToBillResponse(updated)
	return &resp, nil
}

// GetBill retrieves a bill by ID
func (s *DocumentService) GetBill(ctx context.Context, tenantID, id uuid.UUID) (*DocumentResponse, error) {
	bill, err := s.billRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.WrapPersistenceError("get bill", err)
	}
	resp := ToBillResponse(bill)
	return &resp, nil
}

// ListBills lists bills with filtering and pagination
func (s *DocumentService) ListBills(ctx context.Context, tenantID uuid.UUID, filter DocumentListFilter) ([]DocumentResponse, int64, error) {
	domainFilter, err := filter.toDomain()
	if err != nil {
		return nil, 0, err
	}
	bills, total, err := s.billRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistenceError("list bills", err)
	}
	out := make([]DocumentResponse, len(bills))
	for i := range bills {
		out[i] = ToBillResponse(&bills[i])
	}
	return out, total, nil
}
