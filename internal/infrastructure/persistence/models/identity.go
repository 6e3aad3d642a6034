package models

import (
	"github.com/ims/backend/internal/domain/identity"
	"github.com/ims/backend/internal/domain/shared"
)

// IndexProfileEmail is the unique index on profile emails
const IndexProfileEmail = "uq_profiles_email"

// ProfileModel is the persistence model for the Profile entity.
type ProfileModel struct {
	Base
	FullName     string      `gorm:"type:varchar(100);not null"`
	Email        string      `gorm:"type:varchar(254);not null;uniqueIndex:uq_profiles_email"`
	Role         shared.Role `gorm:"type:varchar(20);not null;index"`
	PasswordHash string      `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile entity.
func (m *ProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		BaseEntity:   m.Base.entity(),
		FullName:     m.FullName,
		Email:        m.Email,
		Role:         m.Role,
		PasswordHash: m.PasswordHash,
	}
}

// FromDomain populates the persistence model from a domain Profile entity.
func (m *ProfileModel) FromDomain(p *identity.Profile) {
	m.Base = baseFrom(p.BaseEntity)
	m.FullName = p.FullName
	m.Email = p.Email
	m.Role = p.Role
	m.PasswordHash = p.PasswordHash
}

// ProfileModelFromDomain creates a new persistence model from a domain Profile entity.
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	m := &ProfileModel{}
	m.FromDomain(p)
	return m
}
