package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"counselling_backend/internals/features/counselling/forms/controller"
	"counselling_backend/internals/features/counselling/forms/service"
	helper "counselling_backend/internals/helpers"
)

// FormPublicRoutes mounts intake; mw runs before the handler on this route only.
func FormPublicRoutes(r fiber.Router, db *gorm.DB, mw ...fiber.Handler) {
	ctl := controller.NewFormController(service.NewFormService(db), helper.NewValidator())
	r.Post("/forms", append(mw, ctl.Create)...)
}

func FormUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewFormController(service.NewFormService(db), helper.NewValidator())
	r.Get("/forms/:id", ctl.Get)
}
