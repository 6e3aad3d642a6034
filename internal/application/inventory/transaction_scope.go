package inventory

import (
	"context"

	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/inventory"
)

// TxRepos are the repositories a stock movement writes through, all bound
// to the same database transaction.
type TxRepos struct {
	Products catalog.ProductRepository
	Ledger   inventory.InventoryTransactionRepository
}

// TransactionScope runs fn atomically. Any error from fn rolls back every
// write made through the TxRepos it was given.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(TxRepos) error) error
}
