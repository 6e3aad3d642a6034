package partner

import (
	"net/mail"
	"strings"

	"github.com/ims/backend/internal/domain/shared"
)

// MinSupplierNameLength is the shortest accepted supplier name
const MinSupplierNameLength = 3

// Supplier is a vendor that products can be sourced from
type Supplier struct {
	shared.BaseEntity
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

// SupplierDetails holds the attributes supplied when registering a supplier
type SupplierDetails struct {
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

// NewSupplier creates a supplier
func NewSupplier(d SupplierDetails) (*Supplier, error) {
	verr := shared.NewValidationError()
	name := strings.TrimSpace(d.Name)
	if len([]rune(name)) < MinSupplierNameLength {
		verr.Add("name", "Name must be at least 3 characters")
	}
	email := strings.TrimSpace(d.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			verr.Add("email", "Must be a valid email address")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &Supplier{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		ContactPerson: strings.TrimSpace(d.ContactPerson),
		Email:         email,
		Phone:         strings.TrimSpace(d.Phone),
		Address:       strings.TrimSpace(d.Address),
	}, nil
}
