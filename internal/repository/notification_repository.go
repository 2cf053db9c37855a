package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.NotificationEvent) error
	ListByRecipient(ctx context.Context, recipientUID string, limit int) ([]model.NotificationEvent, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.NotificationEvent) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientUID string, limit int) ([]model.NotificationEvent, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var list []model.NotificationEvent
	if err := r.db.WithContext(ctx).
		Where("recipient_uid = ?", recipientUID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
