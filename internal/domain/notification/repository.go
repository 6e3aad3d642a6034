package notification

import (
	"context"

	"github.com/google/uuid"
)

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// BulkCreate inserts all notifications in a single statement
	BulkCreate(ctx context.Context, notifications []*Notification) error

	// FindByID finds a notification by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// ListUnread returns the recipient's unread notifications, newest first
	ListUnread(ctx context.Context, recipientID uuid.UUID, limit int) ([]Notification, error)

	// CountUnread counts the recipient's unread notifications
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)

	// MarkRead persists the read flag of a notification
	MarkRead(ctx context.Context, n *Notification) error

	// MarkAllRead marks every unread notification of the recipient and
	// returns how many changed
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}
