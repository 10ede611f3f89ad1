package finance

import (
	"context"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExpenseService manages expense claims and their approval lifecycle
type ExpenseService struct {
	serviceBase
	expenseRepo finance.ExpenseRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo finance.ExpenseRepository, txScope TransactionScope, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{
		serviceBase: newServiceBase(txScope, logger),
		expenseRepo: expenseRepo,
	}
}

// CreateExpense records a PENDING expense. A linked petty-cash account must exist and be active.
func (s *ExpenseService) CreateExpense(ctx context.Context, tenantID uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	var created *finance.Expense
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if id := nonNilID(req.PettyCashAccountID); id != nil {
			acct, err := repos.PettyCashAccountRepo().FindByIDForTenant(ctx, tenantID, *id)
			if err != nil {
				return shared.WrapPersistenceError("get petty cash account", err)
			}
			if !acct.IsActive {
				return shared.NewNotFoundError("petty cash account", *id)
			}
		}
		code, err := shared.NextCode(ctx, repos.CodeSequence(), tenantID, finance.ExpenseCode)
		if err != nil {
			return shared.WrapPersistenceError("next expense code", err)
		}
		e, err := finance.NewExpense(tenantID, code, req.Category, req.Description, req.Amount,
			issueDateOrNow(req.ExpenseDate), nonNilID(req.PettyCashAccountID))
		if err != nil {
			return err
		}
		e.SetCreatedBy(req.CreatedBy)
		if err := repos.ExpenseRepo().Create(ctx, e); err != nil {
			return shared.WrapPersistenceError("create expense", err)
		}
		created = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(created)
	return &resp, nil
}

// UpdateExpenseStatus applies a validated transition. Paying an expense linked to a
// petty-cash account disburses from it in the same transaction, so a rejected
// disbursement leaves the expense APPROVED.
func (s *ExpenseService) UpdateExpenseStatus(ctx context.Context, tenantID, id uuid.UUID, req UpdateExpenseStatusRequest) (*ExpenseStatusResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "expense", "update_status",
		telemetry.WithAttribute(telemetry.SpanAttrStatus, req.Status),
	)
	defer span.End()

	target := finance.ExpenseStatus(req.Status)
	var (
		result    ExpenseStatusResult
		collector eventCollector
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		e, err := repos.ExpenseRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return shared.WrapPersistenceError("lock expense", err)
		}
		if err := finance.ValidateExpenseTransition(e.Status, target); err != nil {
			return err
		}

		result.Warnings = []shared.Warning{}
		if target == finance.ExpenseStatusPaid && e.PettyCashAccountID != nil {
			acct, err := repos.PettyCashAccountRepo().FindByIDForUpdate(ctx, tenantID, *e.PettyCashAccountID)
			if err != nil {
				return shared.WrapPersistenceError("lock petty cash account", err)
			}
			code, err := shared.NextCode(ctx, repos.CodeSequence(), tenantID, finance.PettyCashTransactionCode)
			if err != nil {
				return shared.WrapPersistenceError("next transaction code", err)
			}
			tx, warnings, err := finance.SettleFromPettyCash(e, acct, code, req.Actor)
			if err != nil {
				return err
			}
			collector.collect(acct)
			if err := repos.PettyCashTransactionRepo().Create(ctx, tx); err != nil {
				return shared.WrapPersistenceError("create petty cash transaction", err)
			}
			if err := repos.PettyCashAccountRepo().Save(ctx, acct); err != nil {
				return shared.WrapPersistenceError("save petty cash account", err)
			}
			txResp := ToPettyCashTransactionResponse(tx)
			result.Transaction = &txResp
			result.Warnings = nonNilWarnings(warnings)
		} else if err := e.TransitionTo(target, req.Actor, req.Reason); err != nil {
			return err
		}

		collector.collect(e)
		if err := repos.ExpenseRepo().Save(ctx, e); err != nil {
			return shared.WrapPersistenceError("save expense", err)
		}
		result.Expense = ToExpenseResponse(e)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, collector.events)
	return &result, nil
}

// GetExpense retrieves an expense by ID
func (s *ExpenseService) GetExpense(ctx context.Context, tenantID, id uuid.UUID) (*ExpenseResponse, error) {
	e, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.WrapPersistenceError("get expense", err)
	}
	resp := ToExpenseResponse(e)
	return &resp, nil
}

// ListExpenses lists expenses by status, category, account and date
func (s *ExpenseService) ListExpenses(ctx context.Context, tenantID uuid.UUID, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter, err := filter.toDomain()
	if err != nil {
		return nil, 0, err
	}
	expenses, total, err := s.expenseRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistenceError("list expenses", err)
	}
	out := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		out[i] = ToExpenseResponse(&expenses[i])
	}
	return out, total, nil
}
