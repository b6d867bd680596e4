package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CounsellingTypeModel struct {
	CounsellingTypeID   uuid.UUID `json:"counselling_type_id" gorm:"column:counselling_type_id;type:uuid;primaryKey"`
	CounsellingTypeName string    `json:"counselling_type_name" gorm:"column:counselling_type_name;type:varchar(120);not null;uniqueIndex"`

	CounsellingTypeCreatedAt time.Time `json:"counselling_type_created_at" gorm:"column:counselling_type_created_at;autoCreateTime"`
	CounsellingTypeUpdatedAt time.Time `json:"counselling_type_updated_at" gorm:"column:counselling_type_updated_at;autoUpdateTime"`
}

func (CounsellingTypeModel) TableName() string {
	return "counselling_types"
}

func (m *CounsellingTypeModel) BeforeCreate(tx *gorm.DB) error {
	if m.CounsellingTypeID == uuid.Nil {
		m.CounsellingTypeID = uuid.New()
	}
	return nil
}
