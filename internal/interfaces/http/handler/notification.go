package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	notificationapp "github.com/ims/backend/internal/application/notification"
	"github.com/ims/backend/internal/domain/shared"
)

// InboxService is the per-user notification API
type InboxService interface {
	ListUnread(ctx context.Context, actor shared.Actor, filter notificationapp.InboxFilter) (*notificationapp.InboxResponse, error)
	MarkRead(ctx context.Context, actor shared.Actor, id uuid.UUID) (*notificationapp.NotificationResponse, error)
	MarkAllRead(ctx context.Context, actor shared.Actor) (*notificationapp.MarkAllReadResponse, error)
}

// NotificationHandler serves the actor's in-app inbox
type NotificationHandler struct {
	BaseHandler
	inboxService InboxService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(inboxService InboxService) *NotificationHandler {
	return &NotificationHandler{inboxService: inboxService}
}

// ListUnread godoc
// @Summary      Unread notifications
// @Tags         notifications
// @Produce      json
// @Param        limit query int false "Maximum entries" default(50)
// @Success      200 {object} APIResponse[notificationapp.InboxResponse]
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	var filter notificationapp.InboxFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	inbox, err := h.inboxService.ListUnread(c.Request.Context(), actor(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inbox)
}

// MarkRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	n, err := h.inboxService.MarkRead(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// MarkAllRead godoc
// @Summary      Mark every notification read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[notificationapp.MarkAllReadResponse]
// @Security     BearerAuth
// @Router       /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	result, err := h.inboxService.MarkAllRead(c.Request.Context(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
