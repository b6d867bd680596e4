package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"counselling_backend/internals/features/users/auth/dto"
	"counselling_backend/internals/features/users/auth/service"
	userDto "counselling_backend/internals/features/users/users/dto"
	helper "counselling_backend/internals/helpers"
	helperAuth "counselling_backend/internals/helpers/auth"
)

type AuthController struct {
	Svc      *service.AuthService
	Validate *validator.Validate
}

func NewAuthController(svc *service.AuthService, v *validator.Validate) *AuthController {
	return &AuthController{Svc: svc, Validate: v}
}

// POST /auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.BindJSON(c, ac.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}

	res, err := ac.Svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Login successful", dto.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		UserType:  string(res.User.UserType),
		User:      userDto.FromModel(&res.User),
	})
}

// POST /auth/reset-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.ChangePasswordRequest
	if err := helper.BindJSON(c, ac.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}

	if err := ac.Svc.ChangePassword(c.UserContext(), actor.ID, req.OldPassword, req.NewPassword); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Password updated successfully", nil)
}
