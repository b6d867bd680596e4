package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	notifService "counselling_backend/internals/features/home/notifications/service"
	userRoute "counselling_backend/internals/features/users/users/route"
)

// e.g. /api/u/users/profile
func UserPrivateRoutes(api fiber.Router, db *gorm.DB, pub notifService.Publisher) {
	userRoute.UserRoutes(api, db, pub)
}

// e.g. /api/a/users
func UserAdminRoutes(api fiber.Router, db *gorm.DB, pub notifService.Publisher) {
	userRoute.UserAdminRoutes(api, db, pub)
}
