package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referee is the party that raised the intake form.
const (
	RefereeStudent = "student"
	RefereeParent  = "parent"
	RefereeTeacher = "teacher"
)

type FormModel struct {
	FormID          uuid.UUID `json:"form_id" gorm:"column:form_id;type:uuid;primaryKey"`
	FormName        string    `json:"form_name" gorm:"column:form_name;type:varchar(120);not null"`
	FormGRNumber    string    `json:"form_gr_number" gorm:"column:form_gr_number;type:varchar(64);not null;index"`
	FormReferee     string    `json:"form_referee" gorm:"column:form_referee;type:varchar(16);not null"`
	FormRefereeName string    `json:"form_referee_name" gorm:"column:form_referee_name;type:varchar(120)"`
	FormEmail       string    `json:"form_email" gorm:"column:form_email;type:varchar(255);not null"`
	FormClass       string    `json:"form_class" gorm:"column:form_class;type:varchar(64);not null"`

	// student account the form belongs to, when one could be resolved
	FormStudentUserID *uuid.UUID `json:"form_student_user_id,omitempty" gorm:"column:form_student_user_id;type:uuid;index"`

	FormCreatedAt time.Time `json:"form_created_at" gorm:"column:form_created_at;autoCreateTime"`
	FormUpdatedAt time.Time `json:"form_updated_at" gorm:"column:form_updated_at;autoUpdateTime"`
}

func (FormModel) TableName() string {
	return "forms"
}

func (m *FormModel) BeforeCreate(tx *gorm.DB) error {
	if m.FormID == uuid.Nil {
		m.FormID = uuid.New()
	}
	return nil
}

// IsSelfReferred reports whether the student raised the form themselves.
func (m *FormModel) IsSelfReferred() bool {
	return m.FormReferee == "" || m.FormReferee == RefereeStudent
}
