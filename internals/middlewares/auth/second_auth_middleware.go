package auth

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"counselling_backend/internals/helpers/applog"
)

// SecondAuthMiddleware identifies the caller when a token is present and otherwise
// lets the request through anonymously. A bad token is treated as no token.
func SecondAuthMiddleware(db *gorm.DB, secret string) fiber.Handler {
	log := applog.WithComponent("auth")
	return func(c *fiber.Ctx) error {
		if _, err := extractBearerToken(c); err != nil {
			return c.Next()
		}
		if _, err := authenticate(c, db, secret); err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("continuing as anonymous")
		}
		return c.Next()
	}
}
