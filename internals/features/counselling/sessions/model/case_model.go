package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CaseStatusPending   = "pending"
	CaseStatusProgress  = "progress"
	CaseStatusCancelled = "cancelled"
	CaseStatusCompleted = "completed"
	CaseStatusReferred  = "referred"
)

type CaseModel struct {
	CaseID     uuid.UUID `json:"case_id" gorm:"column:case_id;type:uuid;primaryKey"`
	CaseCode   string    `json:"case_code" gorm:"column:case_code;type:varchar(32);not null;uniqueIndex"`
	CaseFormID uuid.UUID `json:"case_form_id" gorm:"column:case_form_id;type:uuid;not null;index"`
	CaseStatus string    `json:"case_status" gorm:"column:case_status;type:varchar(16);not null;index"`

	CaseConcernRaised    *time.Time `json:"case_concern_raised,omitempty" gorm:"column:case_concern_raised;type:date"`
	CaseReasonForClosing string     `json:"case_reason_for_closing" gorm:"column:case_reason_for_closing;type:text"`

	// last issued session sequence; SC_NN numbers are never reused
	CaseSessionSeq int `json:"case_session_seq" gorm:"column:case_session_seq;not null;default:0"`

	CaseCreatedAt time.Time      `json:"case_created_at" gorm:"column:case_created_at;autoCreateTime"`
	CaseUpdatedAt time.Time      `json:"case_updated_at" gorm:"column:case_updated_at;autoUpdateTime"`
	CaseDeletedAt gorm.DeletedAt `json:"-" gorm:"column:case_deleted_at;index"`
}

func (CaseModel) TableName() string {
	return "cases"
}

func (m *CaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.CaseID == uuid.Nil {
		m.CaseID = uuid.New()
	}
	return nil
}

// CaseReferralModel is one entry of a case's referer list. Entries are append-only
// and the same user may appear more than once.
type CaseReferralModel struct {
	CaseReferralID        uuid.UUID  `json:"case_referral_id" gorm:"column:case_referral_id;type:uuid;primaryKey"`
	CaseReferralCaseID    uuid.UUID  `json:"case_referral_case_id" gorm:"column:case_referral_case_id;type:uuid;not null;index"`
	CaseReferralUserID    uuid.UUID  `json:"case_referral_user_id" gorm:"column:case_referral_user_id;type:uuid;not null;index"`
	CaseReferralSessionID *uuid.UUID `json:"case_referral_session_id,omitempty" gorm:"column:case_referral_session_id;type:uuid"`
	CaseReferralPosition  int        `json:"case_referral_position" gorm:"column:case_referral_position;not null"`
	CaseReferralCreatedAt time.Time  `json:"case_referral_created_at" gorm:"column:case_referral_created_at;autoCreateTime"`
}

func (CaseReferralModel) TableName() string {
	return "case_referrals"
}

func (m *CaseReferralModel) BeforeCreate(tx *gorm.DB) error {
	if m.CaseReferralID == uuid.Nil {
		m.CaseReferralID = uuid.New()
	}
	return nil
}

// CaseRemarkModel is one {author, remark} entry on a case. Never edited.
type CaseRemarkModel struct {
	CaseRemarkID         uuid.UUID `json:"case_remark_id" gorm:"column:case_remark_id;type:uuid;primaryKey"`
	CaseRemarkCaseID     uuid.UUID `json:"case_remark_case_id" gorm:"column:case_remark_case_id;type:uuid;not null;index"`
	CaseRemarkAuthorID   uuid.UUID `json:"case_remark_author_id" gorm:"column:case_remark_author_id;type:uuid"`
	CaseRemarkAuthorName string    `json:"case_remark_author_name" gorm:"column:case_remark_author_name;type:varchar(120)"`
	CaseRemarkText       string    `json:"case_remark_text" gorm:"column:case_remark_text;type:text;not null"`
	CaseRemarkPosition   int       `json:"case_remark_position" gorm:"column:case_remark_position;not null"`
	CaseRemarkCreatedAt  time.Time `json:"case_remark_created_at" gorm:"column:case_remark_created_at;autoCreateTime"`
}

func (CaseRemarkModel) TableName() string {
	return "case_remarks"
}

func (m *CaseRemarkModel) BeforeCreate(tx *gorm.DB) error {
	if m.CaseRemarkID == uuid.Nil {
		m.CaseRemarkID = uuid.New()
	}
	return nil
}
