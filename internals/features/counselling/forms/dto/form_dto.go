package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"counselling_backend/internals/features/counselling/forms/model"
)

// ================== REQUEST ==================

type CreateFormRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	GRNumber    string `json:"grNumber" validate:"required,max=64"`
	Referee     string `json:"referee" validate:"required,oneof=student parent teacher"`
	RefereeName string `json:"refereeName" validate:"omitempty,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Class       string `json:"class" validate:"required,max=64"`
}

func (r CreateFormRequest) ToModel() *model.FormModel {
	return &model.FormModel{
		FormName:        strings.TrimSpace(r.Name),
		FormGRNumber:    strings.TrimSpace(r.GRNumber),
		FormReferee:     r.Referee,
		FormRefereeName: strings.TrimSpace(r.RefereeName),
		FormEmail:       strings.ToLower(strings.TrimSpace(r.Email)),
		FormClass:       strings.TrimSpace(r.Class),
	}
}

// ================== RESPONSE ==================

type FormResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	GRNumber      string     `json:"grNumber"`
	Referee       string     `json:"referee"`
	RefereeName   string     `json:"refereeName,omitempty"`
	Email         string     `json:"email"`
	Class         string     `json:"class"`
	StudentUserID *uuid.UUID `json:"student_user_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func FromModel(m *model.FormModel) FormResponse {
	return FormResponse{
		ID:            m.FormID,
		Name:          m.FormName,
		GRNumber:      m.FormGRNumber,
		Referee:       m.FormReferee,
		RefereeName:   m.FormRefereeName,
		Email:         m.FormEmail,
		Class:         m.FormClass,
		StudentUserID: m.FormStudentUserID,
		CreatedAt:     m.FormCreatedAt,
	}
}
