package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"counselling_backend/internals/constants"
	formRoute "counselling_backend/internals/features/counselling/forms/route"
	sessionRoute "counselling_backend/internals/features/counselling/sessions/route"
	timeRoute "counselling_backend/internals/features/counselling/times/route"
	typeRoute "counselling_backend/internals/features/counselling/types/route"
	notifService "counselling_backend/internals/features/home/notifications/service"
	"counselling_backend/internals/middlewares"
	authMiddleware "counselling_backend/internals/middlewares/auth"
)

// CounsellingDeps carries what the counselling routes need beyond the DB.
type CounsellingDeps struct {
	Publisher notifService.Publisher
	Secret    string
	SlackDays int
}

// Public intake: a token is optional, the requester is recorded when present.
// e.g. POST /api/public/sessions
func CounsellingPublicRoutes(api fiber.Router, db *gorm.DB, deps CounsellingDeps) {
	intake := []fiber.Handler{
		middlewares.IntakeRateLimiter(),
		authMiddleware.SecondAuthMiddleware(db, deps.Secret),
	}
	formRoute.FormPublicRoutes(api, db, intake...)
	sessionRoute.SessionPublicRoutes(api, db, deps.Publisher, intake...)
	timeRoute.TimePublicRoutes(api, db, deps.SlackDays)
}

// e.g. /api/u/cases/:id
func CounsellingPrivateRoutes(api fiber.Router, db *gorm.DB, deps CounsellingDeps) {
	formRoute.FormUserRoutes(api, db)
	sessionRoute.SessionUserRoutes(api, db, deps.Publisher)
	typeRoute.TypeUserRoutes(api, db)
	timeRoute.TimeCounsellorRoutes(api, db, deps.SlackDays,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorCounsellor("availability"), constants.CounsellorAndAbove),
	)
}

// e.g. /api/a/counselling-types
func CounsellingAdminRoutes(api fiber.Router, db *gorm.DB) {
	typeRoute.TypeAdminRoutes(api, db)
}
