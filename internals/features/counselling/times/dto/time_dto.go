package dto

import (
	"time"

	"github.com/google/uuid"

	"counselling_backend/internals/features/counselling/times/model"
)

// ================== REQUEST ==================

type SetTimeRequest struct {
	Day   string           `json:"day" validate:"required"`
	Times []model.Interval `json:"times" validate:"omitempty,dive"`
}

type RemoveTimeRequest struct {
	// invalid or empty entries are skipped rather than rejected
	Times  []model.Interval `json:"times"`
	Reason string           `json:"reason" validate:"required"`
}

// ================== RESPONSE ==================

type TimeResponse struct {
	ID           uuid.UUID        `json:"id"`
	CounsellorID uuid.UUID        `json:"counsellor_id"`
	Day          string           `json:"day"`
	Times        []model.Interval `json:"times"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func FromModel(m *model.TimeModel) TimeResponse {
	return TimeResponse{
		ID:           m.TimeID,
		CounsellorID: m.TimeUserID,
		Day:          m.TimeDay,
		Times:        m.Intervals(),
		CreatedAt:    m.TimeCreatedAt,
		UpdatedAt:    m.TimeUpdatedAt,
	}
}

func FromModels(rows []model.TimeModel) []TimeResponse {
	out := make([]TimeResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type RemovalLogResponse struct {
	Day       string    `json:"day"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func FromRemovalLogs(rows []model.TimeRemovalLogModel) []RemovalLogResponse {
	out := make([]RemovalLogResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, RemovalLogResponse{
			Day:       r.TimeRemovalLogDay,
			Start:     r.TimeRemovalLogStart,
			End:       r.TimeRemovalLogEnd,
			Reason:    r.TimeRemovalLogReason,
			CreatedAt: r.TimeRemovalLogCreatedAt,
		})
	}
	return out
}
