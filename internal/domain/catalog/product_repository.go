package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate loads a product and holds a row lock on it until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll finds products matching the filter. Search matches name or SKU.
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindLowStock finds products whose stock is at or below their threshold
	FindLowStock(ctx context.Context) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// Update saves the editable attributes, never the stock
	Update(ctx context.Context, product *Product) error

	// UpdateStock persists the stock balance of a product
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error

	// Delete deletes a product. Ledger rows referencing it are kept.
	Delete(ctx context.Context, id uuid.UUID) error
}
