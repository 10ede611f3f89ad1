package finance

import (
	"context"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService applies and reverses payments. Each operation is a transaction
// script over exactly two aggregates: the Payment and the Invoice or Bill it settles.
type PaymentService struct {
	serviceBase
	paymentRepo finance.PaymentRepository
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo finance.PaymentRepository, txScope TransactionScope, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		serviceBase: newServiceBase(txScope, logger),
		paymentRepo: paymentRepo,
	}
}

// lockedDocument is an invoice or bill loaded under row lock, with its typed save
type lockedDocument struct {
	doc      finance.SettlementDocument
	events   eventSource
	save     func() error
	response func() DocumentResponse
}

func lockDocument(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, invoiceID, billID *uuid.UUID) (*lockedDocument, error) {
	if invoiceID != nil {
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, tenantID, *invoiceID)
		if err != nil {
			return nil, shared.WrapPersistenceError("lock invoice", err)
		}
		return &lockedDocument{
			doc:      inv,
			events:   inv,
			save:     func() error { return repos.InvoiceRepo().Save(ctx, inv) },
			response: func() DocumentResponse { return ToInvoiceResponse(inv) },
		}, nil
	}
	bill, err := repos.BillRepo().FindByIDForUpdate(ctx, tenantID, *billID)
	if err != nil {
		return nil, shared.WrapPersistenceError("lock bill", err)
	}
	return &lockedDocument{
		doc:      bill,
		events:   bill,
		save:     func() error { return repos.BillRepo().Save(ctx, bill) },
		response: func() DocumentResponse { return ToBillResponse(bill) },
	}, nil
}

func nonNilID(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}

// RecordPayment applies a payment to one invoice or one bill. The document row is
// locked, the payment inserted and the document saved in one transaction.
func (s *PaymentService) RecordPayment(ctx context.Context, tenantID uuid.UUID, req RecordPaymentRequest) (*PaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record",
		telemetry.WithAttribute(telemetry.SpanAttrAmount, req.Amount.String()),
	)
	defer span.End()

	req.InvoiceID, req.BillID = nonNilID(req.InvoiceID), nonNilID(req.BillID)
	if err := finance.ValidatePaymentTarget(req.InvoiceID, req.BillID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	details := finance.PaymentDetails{
		Amount:    req.Amount,
		Method:    finance.PaymentMethod(req.Method),
		Reference: req.Reference,
		Notes:     req.Notes,
		CreatedBy: req.CreatedBy,
	}
	if req.PaymentDate != nil {
		details.PaymentDate = *req.PaymentDate
	}

	var (
		result    PaymentResult
		collector eventCollector
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		locked, err := lockDocument(ctx, repos, tenantID, req.InvoiceID, req.BillID)
		if err != nil {
			return err
		}
		code, err := shared.NextCode(ctx, repos.CodeSequence(), tenantID, finance.PaymentCode)
		if err != nil {
			return shared.WrapPersistenceError("next payment code", err)
		}
		payment, err := finance.RecordPayment(locked.doc, code, details)
		if err != nil {
			return err
		}
		collector.collect(payment, locked.events)
		if err := repos.PaymentRepo().Create(ctx, payment); err != nil {
			return shared.WrapPersistenceError("create payment", err)
		}
		if err := locked.save(); err != nil {
			return shared.WrapPersistenceError("save document", err)
		}
		result = PaymentResult{Payment: ToPaymentResponse(payment), Document: locked.response()}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrEntityCode, result.Payment.Code,
		telemetry.SpanAttrBalanceAfter, result.Document.BalanceDue.String(),
	)
	s.publish(ctx, collector.events)
	return &result, nil
}

// CancelPayment soft-cancels a payment and reverses its effect on the document in the
// same transaction. A payment that is already cancelled is rejected unchanged.
func (s *PaymentService) CancelPayment(ctx context.Context, tenantID, paymentID uuid.UUID, req CancelRequest) (*PaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "cancel")
	defer span.End()

	var (
		result    PaymentResult
		collector eventCollector
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByIDForUpdate(ctx, tenantID, paymentID)
		if err != nil {
			return shared.WrapPersistenceError("lock payment", err)
		}
		if !payment.IsActive() {
			return shared.NewIllegalTransitionError("payment", string(payment.Status), string(finance.PaymentStatusCancelled)).
				WithDetail("payment_code", payment.Code)
		}
		locked, err := lockDocument(ctx, repos, tenantID, payment.InvoiceID, payment.BillID)
		if err != nil {
			return err
		}
		if _, err := finance.CancelPayment(locked.doc, payment, req.Reason, req.Actor); err != nil {
			return err
		}
		collector.collect(payment, locked.events)
		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return shared.WrapPersistenceError("save payment", err)
		}
		if err := locked.save(); err != nil {
			return shared.WrapPersistenceError("save document", err)
		}
		result = PaymentResult{Payment: ToPaymentResponse(payment), Document: locked.response()}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, collector.events)
	return &result, nil
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, tenantID, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.WrapPersistenceError("get payment", err)
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// ListPayments lists payments filtered by document, status, method and date
func (s *PaymentService) ListPayments(ctx context.Context, tenantID uuid.UUID, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	domainFilter, err := filter.toDomain()
	if err != nil {
		return nil, 0, err
	}
	payments, total, err := s.paymentRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistenceError("list payments", err)
	}
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out, total, nil
}
