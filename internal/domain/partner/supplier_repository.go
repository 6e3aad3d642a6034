package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByID finds a supplier by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)

	// FindAll lists suppliers ordered by name. Search matches name or contact.
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)

	// Count counts suppliers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts a supplier
	Create(ctx context.Context, supplier *Supplier) error

	// Delete deletes a supplier. Products keep working without it.
	Delete(ctx context.Context, id uuid.UUID) error
}
