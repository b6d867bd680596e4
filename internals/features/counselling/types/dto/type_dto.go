package dto

import (
	"time"

	"github.com/google/uuid"

	"counselling_backend/internals/features/counselling/types/model"
)

type TypeRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type TypeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModel(m *model.CounsellingTypeModel) TypeResponse {
	return TypeResponse{
		ID:        m.CounsellingTypeID,
		Name:      m.CounsellingTypeName,
		CreatedAt: m.CounsellingTypeCreatedAt,
		UpdatedAt: m.CounsellingTypeUpdatedAt,
	}
}

func FromModels(rows []model.CounsellingTypeModel) []TypeResponse {
	out := make([]TypeResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
