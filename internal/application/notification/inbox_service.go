package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/application/validation"
	"github.com/ims/backend/internal/domain/notification"
	"github.com/ims/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InboxService lets a profile read and acknowledge its notifications
type InboxService struct {
	repo   notification.NotificationRepository
	logger *zap.Logger
}

// NewInboxService creates a new InboxService
func NewInboxService(repo notification.NotificationRepository, logger *zap.Logger) *InboxService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InboxService{repo: repo, logger: logger}
}

// ListUnread returns the actor's unread notifications, newest first
func (s *InboxService) ListUnread(ctx context.Context, actor shared.Actor, f InboxFilter) (*InboxResponse, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if err := validation.Struct(f); err != nil {
		return nil, err
	}
	limit := f.Limit
	if limit == 0 {
		limit = DefaultInboxLimit
	}

	items, err := s.repo.ListUnread(ctx, actor.ID, limit)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	resp := &InboxResponse{
		Items:       make([]NotificationResponse, len(items)),
		UnreadCount: count,
	}
	for i := range items {
		resp.Items[i] = ToNotificationResponse(&items[i])
	}
	return resp, nil
}

// MarkRead marks one notification read. Only its recipient may do so.
func (s *InboxService) MarkRead(ctx context.Context, actor shared.Actor, id uuid.UUID) (*NotificationResponse, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasRead := n.IsRead
	if err := n.MarkRead(actor); err != nil {
		return nil, err
	}
	if !wasRead {
		if err := s.repo.MarkRead(ctx, n); err != nil {
			return nil, err
		}
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead marks every unread notification of the actor
func (s *InboxService) MarkAllRead(ctx context.Context, actor shared.Actor) (*MarkAllReadResponse, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	updated, err := s.repo.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("notifications marked read",
		zap.String("user_id", actor.ID.String()),
		zap.Int64("updated", updated),
	)
	return &MarkAllReadResponse{Updated: updated}, nil
}
