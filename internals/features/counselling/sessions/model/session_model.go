package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SessionStatusPending     = "pending"
	SessionStatusProgress    = "progress"
	SessionStatusCancelled   = "cancelled"
	SessionStatusCompleted   = "completed"
	SessionStatusRescheduled = "rescheduled"
)

type SessionModel struct {
	SessionID   uuid.UUID `json:"session_id" gorm:"column:session_id;type:uuid;primaryKey"`
	SessionCode string    `json:"session_code" gorm:"column:session_code;type:varchar(48);not null;uniqueIndex"`
	SessionSeq  int       `json:"session_seq" gorm:"column:session_seq;not null"`

	SessionCaseID       uuid.UUID `json:"session_case_id" gorm:"column:session_case_id;type:uuid;not null;index"`
	SessionFormID       uuid.UUID `json:"session_form_id" gorm:"column:session_form_id;type:uuid;not null;index"`
	SessionCounsellorID uuid.UUID `json:"session_counsellor_id" gorm:"column:session_counsellor_id;type:uuid;not null;index"`

	SessionDate      time.Time `json:"session_date" gorm:"column:session_date;type:date;not null;index"`
	SessionStartTime string    `json:"session_start_time" gorm:"column:session_start_time;type:varchar(5);not null"`
	SessionEndTime   string    `json:"session_end_time" gorm:"column:session_end_time;type:varchar(5);not null"`

	// counselling category
	SessionType string `json:"session_type" gorm:"column:session_type;type:varchar(120);not null"`
	// meeting mode (online, offline, ...), free text
	SessionMode string `json:"session_mode" gorm:"column:session_mode;type:varchar(64)"`

	SessionDescription  string `json:"session_description" gorm:"column:session_description;type:text"`
	SessionCaseDetails  string `json:"session_case_details" gorm:"column:session_case_details;type:text"`
	SessionInteractions string `json:"session_interactions" gorm:"column:session_interactions;type:text"`

	SessionStatus string `json:"session_status" gorm:"column:session_status;type:varchar(16);not null;index"`

	SessionRescheduleRemark  string `json:"session_reschedule_remark" gorm:"column:session_reschedule_remark;type:text"`
	SessionCancelRemark      string `json:"session_cancel_remark" gorm:"column:session_cancel_remark;type:text"`
	SessionCRescheduleRemark string `json:"session_c_reschedule_remark" gorm:"column:session_c_reschedule_remark;type:text"`
	SessionCCancelRemark     string `json:"session_c_cancel_remark" gorm:"column:session_c_cancel_remark;type:text"`

	// report references, JSON array of strings
	SessionReport datatypes.JSON `json:"session_report" gorm:"column:session_report"`

	SessionCreatedAt time.Time      `json:"session_created_at" gorm:"column:session_created_at;autoCreateTime"`
	SessionUpdatedAt time.Time      `json:"session_updated_at" gorm:"column:session_updated_at;autoUpdateTime"`
	SessionDeletedAt gorm.DeletedAt `json:"-" gorm:"column:session_deleted_at;index"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

func (m *SessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SessionID == uuid.Nil {
		m.SessionID = uuid.New()
	}
	if len(m.SessionReport) == 0 {
		m.SessionReport = datatypes.JSON("[]")
	}
	return nil
}

func (m *SessionModel) Reports() []string {
	var out []string
	if len(m.SessionReport) == 0 {
		return out
	}
	_ = json.Unmarshal(m.SessionReport, &out)
	return out
}

func (m *SessionModel) SetReports(refs []string) {
	if refs == nil {
		refs = []string{}
	}
	b, _ := json.Marshal(refs)
	m.SessionReport = datatypes.JSON(b)
}
