package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"counselling_backend/internals/features/counselling/forms/model"
	userModel "counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/apperr"
	helperAuth "counselling_backend/internals/helpers/auth"
)

type FormService struct {
	DB *gorm.DB
}

func NewFormService(db *gorm.DB) *FormService {
	return &FormService{DB: db}
}

// Create stores an intake form. The form is linked to a student account when the
// caller is that student or the GR number matches a student's reference code.
func (s *FormService) Create(ctx context.Context, actor helperAuth.ActingUser, f *model.FormModel) error {
	f.FormReferee = strings.ToLower(strings.TrimSpace(f.FormReferee))
	switch f.FormReferee {
	case model.RefereeStudent, model.RefereeParent, model.RefereeTeacher:
	default:
		return apperr.Validation("referee must be student, parent or teacher")
	}

	db := s.DB.WithContext(ctx)
	if f.FormStudentUserID == nil {
		if !actor.IsZero() && actor.Role == string(userModel.UserTypeStudent) {
			id := actor.ID
			f.FormStudentUserID = &id
		} else if gr := strings.TrimSpace(f.FormGRNumber); gr != "" {
			var u userModel.UserModel
			err := db.Where("student_reference_code = ? AND user_type = ?", gr, userModel.UserTypeStudent).Take(&u).Error
			switch {
			case err == nil:
				f.FormStudentUserID = &u.ID
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return apperr.FromDB(err, "user")
			}
		}
	}

	if err := db.Create(f).Error; err != nil {
		return apperr.FromDB(err, "form")
	}
	return nil
}

func (s *FormService) Get(ctx context.Context, id uuid.UUID) (*model.FormModel, error) {
	var f model.FormModel
	if err := s.DB.WithContext(ctx).Where("form_id = ?", id).Take(&f).Error; err != nil {
		return nil, apperr.FromDB(err, "form")
	}
	return &f, nil
}
