package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Interval is one free {start,end} slot, HH:MM on both ends.
type Interval struct {
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" validate:"required,datetime=15:04"`
}

// TimeModel is a counsellor's recurring availability for one weekday.
// At most one row exists per (user, day).
type TimeModel struct {
	TimeID     uuid.UUID      `json:"time_id" gorm:"column:time_id;type:uuid;primaryKey"`
	TimeUserID uuid.UUID      `json:"time_user_id" gorm:"column:time_user_id;type:uuid;not null;uniqueIndex:uq_times_user_day"`
	TimeDay    string         `json:"time_day" gorm:"column:time_day;type:varchar(12);not null;uniqueIndex:uq_times_user_day"`
	TimeTimes  datatypes.JSON `json:"time_times" gorm:"column:time_times;not null"`

	TimeCreatedAt time.Time `json:"time_created_at" gorm:"column:time_created_at;autoCreateTime"`
	TimeUpdatedAt time.Time `json:"time_updated_at" gorm:"column:time_updated_at;autoUpdateTime"`
}

func (TimeModel) TableName() string {
	return "times"
}

func (m *TimeModel) BeforeCreate(tx *gorm.DB) error {
	if m.TimeID == uuid.Nil {
		m.TimeID = uuid.New()
	}
	if len(m.TimeTimes) == 0 {
		m.TimeTimes = datatypes.JSON("[]")
	}
	return nil
}

// Intervals decodes the stored interval list.
func (m *TimeModel) Intervals() []Interval {
	out := []Interval{}
	if len(m.TimeTimes) == 0 {
		return out
	}
	_ = json.Unmarshal(m.TimeTimes, &out)
	return out
}

func (m *TimeModel) SetIntervals(in []Interval) {
	if in == nil {
		in = []Interval{}
	}
	b, _ := json.Marshal(in)
	m.TimeTimes = datatypes.JSON(b)
}

// TimeRemovalLogModel records one withdrawn interval and why. Append-only.
type TimeRemovalLogModel struct {
	TimeRemovalLogID     uuid.UUID `json:"time_removal_log_id" gorm:"column:time_removal_log_id;type:uuid;primaryKey"`
	TimeRemovalLogUserID uuid.UUID `json:"time_removal_log_user_id" gorm:"column:time_removal_log_user_id;type:uuid;not null;index"`
	TimeRemovalLogDay    string    `json:"time_removal_log_day" gorm:"column:time_removal_log_day;type:varchar(12);not null"`
	TimeRemovalLogStart  string    `json:"time_removal_log_start" gorm:"column:time_removal_log_start;type:varchar(5);not null"`
	TimeRemovalLogEnd    string    `json:"time_removal_log_end" gorm:"column:time_removal_log_end;type:varchar(5);not null"`
	TimeRemovalLogReason string    `json:"time_removal_log_reason" gorm:"column:time_removal_log_reason;type:text;not null"`

	TimeRemovalLogCreatedAt time.Time `json:"time_removal_log_created_at" gorm:"column:time_removal_log_created_at;autoCreateTime"`
}

func (TimeRemovalLogModel) TableName() string {
	return "time_removal_logs"
}

func (m *TimeRemovalLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.TimeRemovalLogID == uuid.Nil {
		m.TimeRemovalLogID = uuid.New()
	}
	return nil
}
