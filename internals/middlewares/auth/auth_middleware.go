package auth

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "counselling_backend/internals/helpers"
	"counselling_backend/internals/helpers/applog"
)

// AuthMiddleware requires a valid bearer token and stores the caller identity in locals.
func AuthMiddleware(db *gorm.DB, secret string) fiber.Handler {
	log := applog.WithComponent("auth")
	return func(c *fiber.Ctx) error {
		if status, err := authenticate(c, db, secret); err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Int("status", status).Msg("request rejected")
			return helper.JsonError(c, status, err.Error())
		}
		return c.Next()
	}
}
