package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationModel is an in-app notice. Only NotificationIsRead ever changes after insert.
type NotificationModel struct {
	NotificationID        uuid.UUID  `gorm:"column:notification_id;primaryKey;type:uuid" json:"notification_id"`
	NotificationUserID    uuid.UUID  `gorm:"column:notification_user_id;type:uuid;not null;index" json:"notification_user_id"`
	NotificationCaseID    *uuid.UUID `gorm:"column:notification_case_id;type:uuid" json:"notification_case_id,omitempty"`
	NotificationSessionID *uuid.UUID `gorm:"column:notification_session_id;type:uuid" json:"notification_session_id,omitempty"`
	NotificationDetails   string     `gorm:"column:notification_details;type:text;not null" json:"notification_details"`
	NotificationIsRead    bool       `gorm:"column:notification_is_read;not null;default:false;index" json:"notification_is_read"`
	NotificationCreatedAt time.Time  `gorm:"column:notification_created_at;autoCreateTime" json:"notification_created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (m *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if m.NotificationID == uuid.Nil {
		m.NotificationID = uuid.New()
	}
	return nil
}
