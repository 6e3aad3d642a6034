package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// Notification is an inbox message for one profile.
// It is only ever created or marked read, never deleted.
type Notification struct {
	shared.BaseEntity
	RecipientID uuid.UUID
	Title       string
	Message     string
	ProductID   *uuid.UUID
	IsRead      bool
	ReadAt      *time.Time
}

// NewNotification creates an unread notification
func NewNotification(recipientID uuid.UUID, title, message string, productID *uuid.UUID) *Notification {
	return &Notification{
		BaseEntity:  shared.NewBaseEntity(),
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		ProductID:   productID,
	}
}

// MarkRead marks the notification read on behalf of actor.
// Only the recipient may do this.
func (n *Notification) MarkRead(actor shared.Actor) error {
	if err := actor.Require(); err != nil {
		return err
	}
	if n.RecipientID != actor.ID {
		return shared.ErrForbidden
	}
	if n.IsRead {
		return nil
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	n.UpdatedAt = now
	return nil
}
