package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"counselling_backend/internals/configs"
	"counselling_backend/internals/features/users/auth/controller"
	"counselling_backend/internals/features/users/auth/service"
	helper "counselling_backend/internals/helpers"
	"counselling_backend/internals/middlewares"
)

func AuthPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewAuthController(service.NewAuthService(db, configs.JWTSecret), helper.NewValidator())

	r.Post("/auth/login", middlewares.LoginRateLimiter(), ctl.Login)
}

func AuthUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewAuthController(service.NewAuthService(db, configs.JWTSecret), helper.NewValidator())

	r.Post("/auth/reset-password", ctl.ChangePassword)
}
