package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"counselling_backend/internals/features/home/notifications/model"
	"counselling_backend/internals/helpers/apperr"
)

type FeedService struct {
	DB *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{DB: db}
}

// Fetch returns the user's notifications newest first and marks the unread ones as read.
// The returned rows keep the read flag they had before the fetch.
func (s *FeedService) Fetch(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.NotificationModel, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	var (
		rows  []model.NotificationModel
		total int64
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.NotificationModel{}).Where("notification_user_id = ?", userID)
		if err := q.Count(&total).Error; err != nil {
			return err
		}
		if err := tx.Where("notification_user_id = ?", userID).
			Order("notification_created_at DESC").
			Limit(limit).Offset(offset).
			Find(&rows).Error; err != nil {
			return err
		}

		unread := make([]uuid.UUID, 0, len(rows))
		for _, r := range rows {
			if !r.NotificationIsRead {
				unread = append(unread, r.NotificationID)
			}
		}
		if len(unread) == 0 {
			return nil
		}
		return tx.Model(&model.NotificationModel{}).
			Where("notification_id IN ?", unread).
			Update("notification_is_read", true).Error
	})
	if err != nil {
		return nil, 0, apperr.FromDB(err, "notification")
	}
	return rows, total, nil
}

// UnreadCount is shown next to the bell icon.
func (s *FeedService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("notification_user_id = ? AND notification_is_read = ?", userID, false).
		Count(&n).Error
	if err != nil {
		return 0, apperr.FromDB(err, "notification")
	}
	return n, nil
}
