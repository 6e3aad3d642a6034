package models

import "github.com/ims/backend/internal/domain/partner"

// SupplierModel is the persistence model for the Supplier entity.
type SupplierModel struct {
	Base
	Name          string `gorm:"type:varchar(200);not null;index"`
	ContactPerson string `gorm:"type:varchar(100);not null;default:''"`
	Email         string `gorm:"type:varchar(254);not null;default:''"`
	Phone         string `gorm:"type:varchar(50);not null;default:''"`
	Address       string `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier entity.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		BaseEntity:    m.Base.entity(),
		Name:          m.Name,
		ContactPerson: m.ContactPerson,
		Email:         m.Email,
		Phone:         m.Phone,
		Address:       m.Address,
	}
}

// FromDomain populates the persistence model from a domain Supplier entity.
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.Base = baseFrom(s.BaseEntity)
	m.Name = s.Name
	m.ContactPerson = s.ContactPerson
	m.Email = s.Email
	m.Phone = s.Phone
	m.Address = s.Address
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier entity.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}
