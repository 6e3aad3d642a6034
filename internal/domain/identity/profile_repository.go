package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	// FindByID finds a profile by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	// FindByEmail finds a profile by its email address
	FindByEmail(ctx context.Context, email string) (*Profile, error)

	// FindByRoles returns every profile holding one of roles
	FindByRoles(ctx context.Context, roles []shared.Role) ([]Profile, error)

	// FindAll lists profiles ordered by name
	FindAll(ctx context.Context, filter shared.Filter) ([]Profile, error)

	// Count counts profiles matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts a profile
	Create(ctx context.Context, profile *Profile) error

	// Update saves name, role and password hash
	Update(ctx context.Context, profile *Profile) error
}
