package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRoute "counselling_backend/internals/features/users/auth/route"
)

// e.g. POST /api/public/auth/login
func AuthPublicRoutes(api fiber.Router, db *gorm.DB) {
	authRoute.AuthPublicRoutes(api, db)
}

// e.g. POST /api/u/auth/reset-password
func AuthPrivateRoutes(api fiber.Router, db *gorm.DB) {
	authRoute.AuthUserRoutes(api, db)
}
