package repository

import (
	"context"

	"agencydesk/internal/domain"
	"agencydesk/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// receiverScope applies the role scoping rule: admins see admin-addressed
// notifications, clients only those addressed to their own client id.
func receiverScope(tx *gorm.DB, role, receiverID string) *gorm.DB {
	tx = tx.Where("receiver_role = ?", role)
	if role == domain.RoleClient {
		tx = tx.Where("receiver_id = ?", receiverID)
	}
	return tx
}

func (r *NotificationRepository) ListByReceiver(ctx context.Context, role, receiverID string, types []string, limit, offset int) ([]models.Notification, error) {
	tx := receiverScope(r.db.WithContext(ctx), role, receiverID)
	if len(types) > 0 {
		tx = tx.Where("type IN ?", types)
	}
	var list []models.Notification
	err := tx.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, role, receiverID string) (int64, error) {
	var count int64
	err := receiverScope(r.db.WithContext(ctx).Model(&models.Notification{}), role, receiverID).
		Where("read = ?", false).Count(&count).Error
	return count, err
}

// MarkRead flips one notification; scoped to the receiver so a user cannot
// mark someone else's.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, role, receiverID string) error {
	return receiverScope(r.db.WithContext(ctx).Model(&models.Notification{}), role, receiverID).
		Where("id = ?", id).Update("read", true).Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, role, receiverID string) error {
	return receiverScope(r.db.WithContext(ctx).Model(&models.Notification{}), role, receiverID).
		Where("read = ?", false).Update("read", true).Error
}
