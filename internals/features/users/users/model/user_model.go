package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeStudent    UserType = "student"
	UserTypeCounsellor UserType = "counsellor"
	UserTypeAdmin      UserType = "admin"
)

// UserModel maps the users table.
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	Name     string    `gorm:"size:120;not null;column:name" json:"name"`
	Email    string    `gorm:"size:255;not null;uniqueIndex;column:email" json:"email"`
	Password string    `gorm:"not null;column:password" json:"-"`
	Mobile   string    `gorm:"size:32;column:mobile" json:"mobile"`
	Gender   string    `gorm:"size:16;column:gender" json:"gender"`

	UserType    UserType `gorm:"type:varchar(16);not null;index;column:user_type" json:"user_type"`
	Designation string   `gorm:"size:120;column:designation" json:"designation"`

	// Counsellor tags, JSON array of strings
	CounsellorType datatypes.JSON `gorm:"column:counsellor_type" json:"counsellor_type"`

	// Student-only
	StudentReferenceCode *string `gorm:"size:64;column:student_reference_code" json:"student_reference_code,omitempty"`
	Division             string  `gorm:"size:64;column:division" json:"division,omitempty"`
	ParentContact        string  `gorm:"size:64;column:parent_contact" json:"parent_contact,omitempty"`

	IsActive bool `gorm:"not null;default:true;column:is_active" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index;column:deleted_at" json:"-"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CounsellorTypes decodes the tag list; malformed JSON yields nil.
func (u *UserModel) CounsellorTypes() []string {
	if len(u.CounsellorType) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(u.CounsellorType, &out); err != nil {
		return nil
	}
	return out
}

// SetCounsellorTypes encodes tags into the JSON column.
func (u *UserModel) SetCounsellorTypes(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	u.CounsellorType = datatypes.JSON(b)
}
