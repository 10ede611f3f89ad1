package finance

import (
	"context"
	"strings"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PettyCashService manages petty-cash accounts and records their transactions
type PettyCashService struct {
	serviceBase
	accountRepo     finance.PettyCashAccountRepository
	transactionRepo finance.PettyCashTransactionRepository
}

// NewPettyCashService creates a new PettyCashService
func NewPettyCashService(
	accountRepo finance.PettyCashAccountRepository,
	transactionRepo finance.PettyCashTransactionRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *PettyCashService {
	return &PettyCashService{
		serviceBase:     newServiceBase(txScope, logger),
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// CreatePettyCashAccount opens an account funded with its initial balance
func (s *PettyCashService) CreatePettyCashAccount(ctx context.Context, tenantID uuid.UUID, req CreatePettyCashAccountRequest) (*PettyCashAccountResponse, error) {
	var created *finance.PettyCashAccount
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		code, err := shared.NextCode(ctx, repos.CodeSequence(), tenantID, finance.PettyCashAccountCode)
		if err != nil {
			return shared.WrapPersistenceError("next account code", err)
		}
		acct, err := finance.NewPettyCashAccount(tenantID, code, req.Name, req.Custodian, req.InitialBalance,
			toNullDecimal(req.MaxLimit), toNullDecimal(req.MinBalance))
		if err != nil {
			return err
		}
		acct.SetCreatedBy(req.CreatedBy)
		if err := repos.PettyCashAccountRepo().Create(ctx, acct); err != nil {
			return shared.WrapPersistenceError("create petty cash account", err)
		}
		created = acct
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToPettyCashAccountResponse(created)
	return &resp, nil
}

// GetPettyCashAccount retrieves an account by ID
func (s *PettyCashService) GetPettyCashAccount(ctx context.Context, tenantID, id uuid.UUID) (*PettyCashAccountResponse, error) {
	acct, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.WrapPersistenceError("get petty cash account", err)
	}
	resp := ToPettyCashAccountResponse(acct)
	return &resp, nil
}

// ListPettyCashAccounts lists accounts, active only unless asked otherwise
func (s *PettyCashService) ListPettyCashAccounts(ctx context.Context, tenantID uuid.UUID, filter PettyCashAccountListFilter) ([]PettyCashAccountResponse, int64, error) {
	accounts, total, err := s.accountRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, shared.WrapPersistenceError("list petty cash accounts", err)
	}
	out := make([]PettyCashAccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToPettyCashAccountResponse(&accounts[i])
	}
	return out, total, nil
}

// DeactivatePettyCashAccount soft-deletes an account; its transactions are kept
func (s *PettyCashService) DeactivatePettyCashAccount(ctx context.Context, tenantID, id uuid.UUID) (*PettyCashAccountResponse, error) {
	var acct *finance.PettyCashAccount
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		a, err := repos.PettyCashAccountRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return shared.WrapPersistenceError("lock petty cash account", err)
		}
		acct = a
		if !a.IsActive {
			return nil
		}
		a.Deactivate()
		if err := repos.PettyCashAccountRepo().Save(ctx, a); err != nil {
			return shared.WrapPersistenceError("save petty cash account", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToPettyCashAccountResponse(acct)
	return &resp, nil
}

// CreatePettyCashTransaction records one transaction against a locked account.
// A balance left under the configured minimum is reported in Warnings, not rejected.
func (s *PettyCashService) CreatePettyCashTransaction(ctx context.Context, tenantID uuid.UUID, req CreatePettyCashTransactionRequest) (*PettyCashTransactionResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "petty_cash", "record_transaction",
		telemetry.WithAttribute(telemetry.SpanAttrMovementType, req.TransactionType),
		telemetry.WithAttribute(telemetry.SpanAttrAmount, req.Amount.String()),
	)
	defer span.End()

	txType := finance.PettyCashTransactionType(strings.ToUpper(strings.TrimSpace(req.TransactionType)))
	details := finance.TransactionDetails{
		Description: req.Description,
		Reference:   req.Reference,
		CreatedBy:   req.CreatedBy,
	}
	if req.TransactionDate != nil {
		details.TransactionDate = *req.TransactionDate
	}

	var (
		result    PettyCashTransactionResult
		collector eventCollector
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		acct, err := repos.PettyCashAccountRepo().FindByIDForUpdate(ctx, tenantID, req.AccountID)
		if err != nil {
			return shared.WrapPersistenceError("lock petty cash account", err)
		}
		code, err := shared.NextCode(ctx, repos.CodeSequence(), tenantID, finance.PettyCashTransactionCode)
		if err != nil {
			return shared.WrapPersistenceError("next transaction code", err)
		}
		tx, warnings, err := acct.RecordTransaction(code, txType, req.Amount, details)
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
		result = PettyCashTransactionResult{
			Transaction: ToPettyCashTransactionResponse(tx),
			Account:     ToPettyCashAccountResponse(acct),
			Warnings:    nonNilWarnings(warnings),
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrEntityCode, result.Transaction.Code,
		telemetry.SpanAttrBalanceAfter, result.Transaction.BalanceAfter.String(),
		telemetry.SpanAttrWarnings, len(result.Warnings),
	)
	s.publish(ctx, collector.events)
	return &result, nil
}

// ListPettyCashTransactions lists transactions by account, type and date
func (s *PettyCashService) ListPettyCashTransactions(ctx context.Context, tenantID uuid.UUID, filter PettyCashTransactionListFilter) ([]PettyCashTransactionResponse, int64, error) {
	domainFilter, err := filter.toDomain()
	if err != nil {
		return nil, 0, err
	}
	txs, total, err := s.transactionRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistenceError("list petty cash transactions", err)
	}
	out := make([]PettyCashTransactionResponse, len(txs))
	for i := range txs {
		out[i] = ToPettyCashTransactionResponse(&txs[i])
	}
	return out, total, nil
}

func nonNilWarnings(w []shared.Warning) []shared.Warning {
	if w == nil {
		return []shared.Warning{}
	}
	return w
}
