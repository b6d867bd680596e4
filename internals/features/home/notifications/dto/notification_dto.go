package dto

import (
	"time"

	"github.com/google/uuid"

	"counselling_backend/internals/features/home/notifications/model"
)

// Response DTO for the feed
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	CaseID    *uuid.UUID `json:"case_id,omitempty"`
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	Details   string     `json:"details"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}

func FromModels(rows []model.NotificationModel) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, NotificationResponse{
			ID:        r.NotificationID,
			CaseID:    r.NotificationCaseID,
			SessionID: r.NotificationSessionID,
			Details:   r.NotificationDetails,
			IsRead:    r.NotificationIsRead,
			CreatedAt: r.NotificationCreatedAt,
		})
	}
	return out
}
