package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/features/users/users/service"
)

// ================== REQUEST ==================

type CreateUserRequest struct {
	Name                 string   `json:"name" validate:"required,min=2"`
	Email                string   `json:"email" validate:"required,email"`
	Mobile               string   `json:"mobile" validate:"omitempty,min=6,max=32"`
	Gender               string   `json:"gender" validate:"omitempty,oneof=male female other"`
	UserType             string   `json:"userType" validate:"required,oneof=student counsellor"`
	Designation          string   `json:"designation"`
	CounsellorType       []string `json:"counsellorType"`
	StudentReferenceCode string   `json:"StudentReferencesCode"`
	Division             string   `json:"division"`
	ParentContact        string   `json:"parentContact"`
}

func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.UserType = strings.ToLower(strings.TrimSpace(r.UserType))
	r.Gender = strings.ToLower(strings.TrimSpace(r.Gender))
}

func (r *CreateUserRequest) ToInput() service.CreateUserInput {
	return service.CreateUserInput{
		Name:                 r.Name,
		Email:                r.Email,
		Mobile:               r.Mobile,
		Gender:               r.Gender,
		UserType:             model.UserType(r.UserType),
		Designation:          r.Designation,
		CounsellorTypes:      r.CounsellorType,
		StudentReferenceCode: r.StudentReferenceCode,
		Division:             r.Division,
		ParentContact:        r.ParentContact,
	}
}

type UpdateUserRequest struct {
	Name                 *string  `json:"name" validate:"omitempty,min=2"`
	Email                *string  `json:"email" validate:"omitempty,email"`
	Mobile               *string  `json:"mobile"`
	Gender               *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Designation          *string  `json:"designation"`
	CounsellorType       []string `json:"counsellorType"`
	StudentReferenceCode *string  `json:"StudentReferencesCode"`
	Division             *string  `json:"division"`
	ParentContact        *string  `json:"parentContact"`
	IsActive             *bool    `json:"is_active"`
}

func (r *UpdateUserRequest) ToInput() service.UpdateUserInput {
	return service.UpdateUserInput{
		Name:                 r.Name,
		Email:                r.Email,
		Mobile:               r.Mobile,
		Gender:               r.Gender,
		Designation:          r.Designation,
		CounsellorTypes:      r.CounsellorType,
		StudentReferenceCode: r.StudentReferenceCode,
		Division:             r.Division,
		ParentContact:        r.ParentContact,
		IsActive:             r.IsActive,
	}
}

type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

// ================== RESPONSE ==================

type UserResponse struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Mobile               string    `json:"mobile,omitempty"`
	Gender               string    `json:"gender,omitempty"`
	UserType             string    `json:"userType"`
	Designation          string    `json:"designation,omitempty"`
	CounsellorType       []string  `json:"counsellorType,omitempty"`
	StudentReferenceCode *string   `json:"StudentReferencesCode,omitempty"`
	Division             string    `json:"division,omitempty"`
	ParentContact        string    `json:"parentContact,omitempty"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func FromModel(u *model.UserModel) UserResponse {
	return UserResponse{
		ID:                   u.ID,
		Name:                 u.Name,
		Email:                u.Email,
		Mobile:               u.Mobile,
		Gender:               u.Gender,
		UserType:             string(u.UserType),
		Designation:          u.Designation,
		CounsellorType:       u.CounsellorTypes(),
		StudentReferenceCode: u.StudentReferenceCode,
		Division:             u.Division,
		ParentContact:        u.ParentContact,
		IsActive:             u.IsActive,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

func FromModelList(users []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, FromModel(&users[i]))
	}
	return out
}

// CounsellorOption is the trimmed view used by referral and booking pickers.
type CounsellorOption struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Type  []string  `json:"type"`
}

func ToCounsellorOptions(users []model.UserModel) []CounsellorOption {
	out := make([]CounsellorOption, 0, len(users))
	for i := range users {
		out = append(out, CounsellorOption{
			ID:    users[i].ID,
			Name:  users[i].Name,
			Email: users[i].Email,
			Type:  users[i].CounsellorTypes(),
		})
	}
	return out
}
