package finance

import (
	"context"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/shared"
)

// TransactionScope provides transactional access to finance repositories.
// When fn returns an error every write made through repos is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all finance repositories within a transaction.
// A payment touches a Payment and one Invoice or Bill; an expense settled from petty
// cash touches the Expense, the account and a new transaction. Each operation locks
// the balance-carrying rows with FindByIDForUpdate before mutating them.
type TransactionalRepositories interface {
	InvoiceRepo() finance.InvoiceRepository
	BillRepo() finance.BillRepository
	PaymentRepo() finance.PaymentRepository
	PettyCashAccountRepo() finance.PettyCashAccountRepository
	PettyCashTransactionRepo() finance.PettyCashTransactionRepository
	ExpenseRepo() finance.ExpenseRepository
	CodeSequence() shared.CodeSequenceRepository
}
