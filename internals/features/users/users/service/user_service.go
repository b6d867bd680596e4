package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	formModel "counselling_backend/internals/features/counselling/forms/model"
	sessionModel "counselling_backend/internals/features/counselling/sessions/model"
	timeService "counselling_backend/internals/features/counselling/times/service"
	notifModel "counselling_backend/internals/features/home/notifications/model"
	notifService "counselling_backend/internals/features/home/notifications/service"
	"counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/apperr"
	"counselling_backend/internals/helpers/applog"
	helperAuth "counselling_backend/internals/helpers/auth"
	"counselling_backend/internals/helpers/mailer"
)

const (
	EventUserCreated = "user.created"

	initialPasswordLength = 10
)

// UserService manages student and counsellor accounts on behalf of admins.
type UserService struct {
	DB        *gorm.DB
	Publisher notifService.Publisher
	// bcrypt cost; zero means bcrypt.DefaultCost
	HashCost int
	log      *zerolog.Logger
}

func NewUserService(db *gorm.DB, pub notifService.Publisher) *UserService {
	return &UserService{DB: db, Publisher: pub, HashCost: bcrypt.DefaultCost, log: applog.WithComponent("users")}
}

// CreateUserInput is what an admin supplies for a new account.
type CreateUserInput struct {
	Name                 string
	Email                string
	Mobile               string
	Gender               string
	UserType             model.UserType
	Designation          string
	CounsellorTypes      []string
	StudentReferenceCode string
	Division             string
	ParentContact        string
}

func (in *CreateUserInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.StudentReferenceCode = strings.TrimSpace(in.StudentReferenceCode)
	in.UserType = model.UserType(strings.ToLower(strings.TrimSpace(string(in.UserType))))
}

func (in *CreateUserInput) validate() error {
	if in.Name == "" || in.Email == "" {
		return apperr.Validation("name and email are required")
	}
	switch in.UserType {
	case model.UserTypeStudent:
		if in.StudentReferenceCode == "" {
			return apperr.Validation("student_reference_code is required for students")
		}
	case model.UserTypeCounsellor:
	default:
		return apperr.Validation("user_type must be student or counsellor")
	}
	return nil
}

func (in *CreateUserInput) toModel() model.UserModel {
	u := model.UserModel{
		Name:          in.Name,
		Email:         in.Email,
		Mobile:        in.Mobile,
		Gender:        in.Gender,
		UserType:      in.UserType,
		Designation:   in.Designation,
		Division:      in.Division,
		ParentContact: in.ParentContact,
		IsActive:      true,
	}
	if in.UserType == model.UserTypeCounsellor {
		u.SetCounsellorTypes(in.CounsellorTypes)
	}
	if in.StudentReferenceCode != "" {
		code := in.StudentReferenceCode
		u.StudentReferenceCode = &code
	}
	return u
}

/* =========================================================
   Create
========================================================= */

// Create stores one account with a generated password and mails the credentials.
// Counsellors also get the default weekly availability.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*model.UserModel, error) {
	users, err := s.BulkCreate(ctx, []CreateUserInput{in})
	if err != nil {
		return nil, err
	}
	return &users[0], nil
}

// BulkCreate inserts every account or none. Emails already taken, or repeated
// within the batch, fail the whole batch.
func (s *UserService) BulkCreate(ctx context.Context, inputs []CreateUserInput) ([]model.UserModel, error) {
	if len(inputs) == 0 {
		return nil, apperr.Validation("at least one user is required")
	}

	seen := make(map[string]bool, len(inputs))
	emails := make([]string, 0, len(inputs))
	for i := range inputs {
		inputs[i].normalize()
		if err := inputs[i].validate(); err != nil {
			return nil, err
		}
		if seen[inputs[i].Email] {
			return nil, apperr.Validation("duplicate email in request: %s", inputs[i].Email)
		}
		seen[inputs[i].Email] = true
		emails = append(emails, inputs[i].Email)
	}

	users := make([]model.UserModel, 0, len(inputs))
	passwords := make([]string, 0, len(inputs))
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken []string
		if err := tx.Unscoped().Model(&model.UserModel{}).Where("email IN ?", emails).Pluck("email", &taken).Error; err != nil {
			return apperr.FromDB(err, "user")
		}
		if len(taken) > 0 {
			return apperr.Validation("email already registered: %s", strings.Join(taken, ", "))
		}

		for i := range inputs {
			plain, err := helperAuth.RandomPassword(initialPasswordLength)
			if err != nil {
				return apperr.Internal("generate password", err)
			}
			hash, err := helperAuth.HashPassword(plain, s.HashCost)
			if err != nil {
				return apperr.Internal("hash password", err)
			}
			u := inputs[i].toModel()
			u.Password = hash
			if err := tx.Create(&u).Error; err != nil {
				return apperr.FromDB(err, "user")
			}
			if u.UserType == model.UserTypeCounsellor {
				if err := timeService.SeedDefaults(tx, u.ID); err != nil {
					return apperr.FromDB(err, "time")
				}
			}
			users = append(users, u)
			passwords = append(passwords, plain)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	env := notifService.Envelope{Event: EventUserCreated}
	for i := range users {
		env.Mails = append(env.Mails, credentialsMail(&users[i], passwords[i]))
	}
	s.Publisher.Publish(ctx, env)
	s.log.Info().Int("count", len(users)).Str("user_type", string(users[0].UserType)).Msg("users created")
	return users, nil
}

func credentialsMail(u *model.UserModel, password string) mailer.Message {
	return mailer.Message{
		To:      []string{u.Email},
		Subject: fmt.Sprintf("New %s created", u.UserType),
		Text: fmt.Sprintf("Hello %s,\n\nYour account has been created. Username: %s, Password: %s\n\nRegards,\nAdmin",
			u.Name, u.Email, password),
	}
}

/* =========================================================
   Read
========================================================= */

type UserFilter struct {
	Type   string
	Search string
	// All disables pagination
	All    bool
	Limit  int
	Offset int
}

func (s *UserService) List(ctx context.Context, f UserFilter) ([]model.UserModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.UserModel{})
	if t := strings.TrimSpace(f.Type); t != "" {
		q = q.Where("user_type = ?", strings.ToLower(t))
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR mobile LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "user")
	}

	q = q.Order("created_at DESC")
	if !f.All {
		limit := f.Limit
		if limit <= 0 {
			limit = 10
		}
		q = q.Limit(limit).Offset(f.Offset)
	}
	var users []model.UserModel
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "user")
	}
	return users, total, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.UserModel, error) {
	var u model.UserModel
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return &u, nil
}

// GetStudentByReference finds a student by GR number.
func (s *UserService) GetStudentByReference(ctx context.Context, gr string) (*model.UserModel, error) {
	gr = strings.TrimSpace(gr)
	if gr == "" {
		return nil, apperr.Validation("gr number is required")
	}
	var u model.UserModel
	if err := s.DB.WithContext(ctx).
		Where("student_reference_code = ? AND user_type = ?", gr, model.UserTypeStudent).
		Take(&u).Error; err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return &u, nil
}

// Counsellors returns counsellors tagged with counsellorType, or when it is empty,
// every counsellor except exclude (used to pick a referral target).
func (s *UserService) Counsellors(ctx context.Context, counsellorType string, exclude uuid.UUID) ([]model.UserModel, error) {
	q := s.DB.WithContext(ctx).Where("user_type = ? AND is_active = ?", model.UserTypeCounsellor, true).Order("name ASC")
	counsellorType = strings.TrimSpace(counsellorType)
	if counsellorType == "" && exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	var rows []model.UserModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperr.FromDB(err, "user")
	}

	if counsellorType != "" {
		// tags live in a JSON column; filtering here keeps the query portable
		out := rows[:0]
		for i := range rows {
			for _, t := range rows[i].CounsellorTypes() {
				if strings.EqualFold(t, counsellorType) {
					out = append(out, rows[i])
					break
				}
			}
		}
		rows = out
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("no counsellors found")
	}
	return rows, nil
}

/* =========================================================
   Update
========================================================= */

// UpdateUserInput carries optional changes; nil leaves a field untouched.
type UpdateUserInput struct {
	Name                 *string
	Email                *string
	Mobile               *string
	Gender               *string
	Designation          *string
	CounsellorTypes      []string
	StudentReferenceCode *string
	Division             *string
	ParentContact        *string
	IsActive             *bool
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.UserModel, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	setStr := func(col string, v *string) {
		if v != nil {
			changes[col] = strings.TrimSpace(*v)
		}
	}
	setStr("name", in.Name)
	setStr("mobile", in.Mobile)
	setStr("gender", in.Gender)
	setStr("designation", in.Designation)
	setStr("division", in.Division)
	setStr("parent_contact", in.ParentContact)
	if in.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*in.Email))
		if e == "" {
			return nil, apperr.Validation("email cannot be empty")
		}
		changes["email"] = e
	}
	if in.StudentReferenceCode != nil {
		code := strings.TrimSpace(*in.StudentReferenceCode)
		if code == "" {
			changes["student_reference_code"] = nil
		} else {
			changes["student_reference_code"] = code
		}
	}
	if in.CounsellorTypes != nil {
		u.SetCounsellorTypes(in.CounsellorTypes)
		changes["counsellor_type"] = u.CounsellorType
	}
	if in.IsActive != nil {
		changes["is_active"] = *in.IsActive
	}
	if len(changes) == 0 {
		return u, nil
	}

	if err := s.DB.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Updates(changes).Error; err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return s.Get(ctx, id)
}

/* =========================================================
   Delete
========================================================= */

// BulkDelete removes each user in its own transaction. Their sessions (as counsellor),
// and the cases and sessions raised through their forms, are soft-deleted; their
// notifications are removed. Ids that fail are reported in a PartialFailure.
func (s *UserService) BulkDelete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return apperr.Validation("a non-empty list of user ids is required")
	}

	var failed []string
	for _, id := range ids {
		if err := s.deleteOne(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id.String()).Msg("user delete failed")
			failed = append(failed, id.String())
		}
	}
	if len(failed) > 0 {
		return apperr.Partial(fmt.Sprintf("%d of %d users could not be deleted", len(failed), len(ids)), failed)
	}
	return nil
}

// Delete removes a single user with the same cascade as BulkDelete.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteOne(ctx, id)
}

func (s *UserService) deleteOne(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&model.UserModel{})
		if res.Error != nil {
			return apperr.FromDB(res.Error, "user")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("user not found")
		}

		formIDs := tx.Model(&formModel.FormModel{}).Select("form_id").Where("form_student_user_id = ?", id)
		if err := tx.Where("session_counsellor_id = ? OR session_form_id IN (?)", id, formIDs).
			Delete(&sessionModel.SessionModel{}).Error; err != nil {
			return apperr.FromDB(err, "session")
		}
		if err := tx.Where("case_form_id IN (?)", formIDs).Delete(&sessionModel.CaseModel{}).Error; err != nil {
			return apperr.FromDB(err, "case")
		}
		if err := tx.Where("notification_user_id = ?", id).Delete(&notifModel.NotificationModel{}).Error; err != nil {
			return apperr.FromDB(err, "notification")
		}
		return nil
	})
}
