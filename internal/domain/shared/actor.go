package shared

import "github.com/google/uuid"

// Role is the permission level of a profile
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// AlertRecipientRoles are the roles that receive low-stock alerts
func AlertRecipientRoles() []Role {
	return []Role{RoleAdmin, RoleManager}
}

// Actor identifies the authenticated profile performing an operation.
// It is passed explicitly into every mutating call.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// NewActor creates an actor
func NewActor(id uuid.UUID, role Role) Actor {
	return Actor{ID: id, Role: role}
}

// IsAuthenticated reports whether the actor carries an identity
func (a Actor) IsAuthenticated() bool {
	return a.ID != uuid.Nil
}

// IsAdmin reports whether the actor has the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Require returns ErrUnauthorized when the actor is anonymous
func (a Actor) Require() error {
	if !a.IsAuthenticated() {
		return ErrUnauthorized
	}
	return nil
}

// RequireRole returns ErrUnauthorized for anonymous actors and ErrForbidden
// when the actor's role is not in roles.
func (a Actor) RequireRole(roles ...Role) error {
	if err := a.Require(); err != nil {
		return err
	}
	for _, r := range roles {
		if a.Role == r {
			return nil
		}
	}
	return ErrForbidden
}
