package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// InventoryTransactionRepository is the append-only ledger store.
// There is deliberately no update or delete.
type InventoryTransactionRepository interface {
	// Append inserts a new ledger row
	Append(ctx context.Context, tx *InventoryTransaction) error

	// FindByID finds a ledger row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryTransaction, error)

	// FindAll lists ledger rows newest first.
	// Supported filter keys: product_id (uuid.UUID), type (Direction).
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryTransaction, error)

	// Count counts ledger rows matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SumByProduct returns ΣIN − ΣOUT for a product
	SumByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
