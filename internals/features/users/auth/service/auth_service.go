package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	userModel "counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/apperr"
	"counselling_backend/internals/helpers/applog"
	helperAuth "counselling_backend/internals/helpers/auth"
)

const accessTTLDefault = 24 * time.Hour

var errBadCredentials = fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")

type AuthService struct {
	DB        *gorm.DB
	Secret    string
	AccessTTL time.Duration
	HashCost  int
	now       func() time.Time
	log       *zerolog.Logger
}

func NewAuthService(db *gorm.DB, secret string) *AuthService {
	return &AuthService{
		DB:        db,
		Secret:    secret,
		AccessTTL: accessTTLDefault,
		now:       func() time.Time { return time.Now().UTC() },
		log:       applog.WithComponent("auth"),
	}
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      userModel.UserModel
}

/* ==========================
   LOGIN (email + password)
========================== */

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}
	if s.Secret == "" {
		return nil, apperr.Internal("jwt secret is not configured", nil)
	}

	var u userModel.UserModel
	if err := s.DB.WithContext(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBadCredentials
		}
		return nil, apperr.FromDB(err, "user")
	}
	if err := helperAuth.CheckPasswordHash(u.Password, password); err != nil {
		return nil, errBadCredentials
	}
	if !u.IsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, "account is disabled")
	}

	now := s.now()
	exp := now.Add(s.AccessTTL)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(u, now, exp)).SignedString([]byte(s.Secret))
	if err != nil {
		return nil, apperr.Internal("sign token", err)
	}
	s.log.Info().Str("user_id", u.ID.String()).Str("role", string(u.UserType)).Msg("login")
	return &LoginResult{Token: tok, ExpiresAt: exp, User: u}, nil
}

func buildAccessClaims(u userModel.UserModel, now, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":       "access",
		"sub":       u.ID.String(),
		"id":        u.ID.String(),
		"role":      string(u.UserType),
		"user_name": u.Name,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
}

/* ==========================
   CHANGE PASSWORD
========================== */

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if len(next) < 8 {
		return apperr.Validation("new password must be at least 8 characters")
	}
	var u userModel.UserModel
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).Take(&u).Error; err != nil {
		return apperr.FromDB(err, "user")
	}
	if err := helperAuth.CheckPasswordHash(u.Password, current); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "current password incorrect")
	}

	hash, err := helperAuth.HashPassword(next, s.HashCost)
	if err != nil {
		return apperr.Internal("hash password", err)
	}
	return apperr.FromDB(
		s.DB.WithContext(ctx).Model(&userModel.UserModel{}).Where("id = ?", userID).Update("password", hash).Error,
		"user",
	)
}
