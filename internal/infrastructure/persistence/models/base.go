package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// Base holds the id and timestamp columns shared by every table
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func baseFrom(e shared.BaseEntity) Base {
	return Base{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

func (b Base) entity() shared.BaseEntity {
	return shared.BaseEntity{ID: b.ID, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt}
}
