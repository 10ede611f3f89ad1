package inventory

import (
	"context"

	"github.com/erp/ledger/internal/domain/inventory"
	"github.com/erp/ledger/internal/domain/shared"
)

// TransactionScope provides transactional access to inventory repositories.
// All repository calls made through the repos passed to fn commit or roll back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all inventory repositories within a transaction.
//
//   - ItemRepo: the InventoryItem aggregate; FindByIDForUpdate takes the row lock that
//     serializes concurrent movements on one item.
//   - MovementRepo: append-only stock movement ledger.
//   - CodeSequence: per-tenant code counters, incremented in the same transaction.
type TransactionalRepositories interface {
	ItemRepo() inventory.InventoryItemRepository
	MovementRepo() inventory.StockMovementRepository
	CodeSequence() shared.CodeSequenceRepository
}
