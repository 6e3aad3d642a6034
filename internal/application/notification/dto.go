package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/notification"
)

// DefaultInboxLimit is how many unread notifications a listing returns
const DefaultInboxLimit = 50

// InboxFilter narrows an inbox listing
type InboxFilter struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// NotificationResponse is an inbox entry in API responses
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// InboxResponse is a page of unread notifications plus the unread total
type InboxResponse struct {
	Items       []NotificationResponse `json:"items"`
	UnreadCount int64                  `json:"unread_count"`
}

// MarkAllReadResponse reports how many notifications changed
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// ToNotificationResponse converts a notification
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		ProductID: n.ProductID,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
