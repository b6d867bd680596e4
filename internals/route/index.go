package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"counselling_backend/internals/constants"
	notifService "counselling_backend/internals/features/home/notifications/service"
	"counselling_backend/internals/helpers/applog"
	authMiddleware "counselling_backend/internals/middlewares/auth"
	routeDetails "counselling_backend/internals/route/details"
)

var startTime time.Time

// Deps are the process-wide collaborators handed to the feature routes.
type Deps struct {
	Publisher notifService.Publisher
	Secret    string
	SlackDays int
}

func SetupRoutes(app *fiber.App, db *gorm.DB, deps Deps) {
	startTime = time.Now()
	log := applog.WithComponent("routes")

	counselling := routeDetails.CounsellingDeps{
		Publisher: deps.Publisher,
		Secret:    deps.Secret,
		SlackDays: deps.SlackDays,
	}

	// ===================== GROUPS =====================

	// PUBLIC: no token, or an optional one on intake
	log.Info().Msg("setting up PUBLIC group")
	public := app.Group("/api/public")

	// PRIVATE: any signed-in role
	log.Info().Msg("setting up PRIVATE group")
	private := app.Group("/api/u",
		authMiddleware.AuthMiddleware(db, deps.Secret),
	)

	// ADMIN
	log.Info().Msg("setting up ADMIN group")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(db, deps.Secret),
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("this resource"), constants.AdminOnly),
	)

	// ===================== MOUNT ROUTES =====================

	log.Info().Msg("mounting auth routes")
	routeDetails.AuthPublicRoutes(public, db)
	routeDetails.AuthPrivateRoutes(private, db)

	log.Info().Msg("mounting counselling routes")
	routeDetails.CounsellingPublicRoutes(public, db, counselling)
	routeDetails.CounsellingPrivateRoutes(private, db, counselling)
	routeDetails.CounsellingAdminRoutes(admin, db)

	log.Info().Msg("mounting user routes")
	routeDetails.UserPrivateRoutes(private, db, deps.Publisher)
	routeDetails.UserAdminRoutes(admin, db, deps.Publisher)

	log.Info().Msg("mounting home routes")
	routeDetails.HomePrivateRoutes(private, db)
	routeDetails.HomeAdminRoutes(admin, db)
}
