package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/notification"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// BulkCreate inserts all notifications in one INSERT statement
func (r *GormNotificationRepository) BulkCreate(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	rows := make([]*models.NotificationModel, len(notifications))
	for i, n := range notifications {
		rows[i] = models.NotificationModelFromDomain(n)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListUnread returns the recipient's unread notifications, newest first
func (r *GormNotificationRepository) ListUnread(ctx context.Context, recipientID uuid.UUID, limit int) ([]notification.Notification, error) {
	var rows []models.NotificationModel
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", recipientID, false).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]notification.Notification, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// CountUnread counts the recipient's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkRead persists the read flag of a notification
func (r *GormNotificationRepository) MarkRead(ctx context.Context, n *notification.Notification) error {
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("id = ?", n.ID).
		UpdateColumns(map[string]any{
			"is_read":    n.IsRead,
			"read_at":    n.ReadAt,
			"updated_at": n.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the recipient
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", recipientID, false).
		UpdateColumns(map[string]any{
			"is_read":    true,
			"read_at":    now,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)
