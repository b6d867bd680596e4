package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gorm.io/gorm"

	timeService "counselling_backend/internals/features/counselling/times/service"
	"counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/applog"
	helperAuth "counselling_backend/internals/helpers/auth"
)

type UserSeed struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
	// counsellor tags, only for counsellors
	CounsellorType []string `json:"counsellor_type"`
	// GR number, only for students
	StudentReferenceCode string `json:"student_reference_code"`
}

// SeedAdmin creates the first admin account unless the email already exists.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return errors.New("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}
	_, err := seedOne(db, UserSeed{Name: "Administrator", Email: email, Password: password, UserType: string(model.UserTypeAdmin)})
	return err
}

// SeedUsersFromJSON inserts every user in filePath, skipping emails that already exist.
func SeedUsersFromJSON(db *gorm.DB, filePath string) error {
	log := applog.WithComponent("seed")
	log.Info().Str("file", filePath).Msg("reading user seed file")

	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}
	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}

	inserted := 0
	for _, data := range inputs {
		created, err := seedOne(db, data)
		if err != nil {
			log.Error().Err(err).Str("email", data.Email).Msg("user seed failed")
			continue
		}
		if created {
			inserted++
		}
	}
	log.Info().Int("inserted", inserted).Int("total", len(inputs)).Msg("user seed finished")
	return nil
}

func seedOne(db *gorm.DB, data UserSeed) (bool, error) {
	log := applog.WithComponent("seed")
	email := strings.ToLower(strings.TrimSpace(data.Email))

	var count int64
	if err := db.Unscoped().Model(&model.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		log.Info().Str("email", email).Msg("user already exists, skipped")
		return false, nil
	}

	hashed, err := helperAuth.HashPassword(data.Password, 0)
	if err != nil {
		return false, err
	}
	u := model.UserModel{
		Name:     strings.TrimSpace(data.Name),
		Email:    email,
		Password: hashed,
		UserType: model.UserType(data.UserType),
		IsActive: true,
	}
	switch u.UserType {
	case model.UserTypeCounsellor:
		u.SetCounsellorTypes(data.CounsellorType)
	case model.UserTypeStudent:
		if gr := strings.TrimSpace(data.StudentReferenceCode); gr != "" {
			u.StudentReferenceCode = &gr
		}
	case model.UserTypeAdmin:
	default:
		return false, fmt.Errorf("unknown user_type %q", data.UserType)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		if u.UserType == model.UserTypeCounsellor {
			return timeService.SeedDefaults(tx, u.ID)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	log.Info().Str("email", email).Str("user_type", data.UserType).Msg("user inserted")
	return true, nil
}
