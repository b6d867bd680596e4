package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventRoute "counselling_backend/internals/features/events/route"
	notificationRoute "counselling_backend/internals/features/home/notifications/route"
	reportRoute "counselling_backend/internals/features/reports/route"
)

// e.g. /api/u/notifications
func HomePrivateRoutes(api fiber.Router, db *gorm.DB) {
	notificationRoute.NotificationUserRoutes(api, db)
	eventRoute.EventUserRoutes(api, db)
}

// e.g. /api/a/report?reportType=session
func HomeAdminRoutes(api fiber.Router, db *gorm.DB) {
	eventRoute.EventAdminRoutes(api, db)
	reportRoute.ReportAdminRoutes(api, db)
}
