package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for an inbox notification.
type NotificationModel struct {
	Base
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_user_unread,priority:1"`
	Title     string     `gorm:"type:varchar(200);not null"`
	Message   string     `gorm:"type:text;not null"`
	ProductID *uuid.UUID `gorm:"type:uuid"`
	IsRead    bool       `gorm:"not null;default:false;index:idx_notifications_user_unread,priority:2"`
	ReadAt    *time.Time
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification.
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity:  m.Base.entity(),
		RecipientID: m.UserID,
		Title:       m.Title,
		Message:     m.Message,
		ProductID:   m.ProductID,
		IsRead:      m.IsRead,
		ReadAt:      m.ReadAt,
	}
}

// FromDomain populates the persistence model from a domain Notification.
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.Base = baseFrom(n.BaseEntity)
	m.UserID = n.RecipientID
	m.Title = n.Title
	m.Message = n.Message
	m.ProductID = n.ProductID
	m.IsRead = n.IsRead
	m.ReadAt = n.ReadAt
}

// NotificationModelFromDomain creates a persistence model from a notification.
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}

// AllModels lists every model, in dependency order, for auto migration in tests
func AllModels() []any {
	return []any{
		&ProfileModel{},
		&CategoryModel{},
		&SupplierModel{},
		&ProductModel{},
		&InventoryTransactionModel{},
		&NotificationModel{},
	}
}
