package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"counselling_backend/internals/features/events/controller"
	"counselling_backend/internals/features/events/service"
	helper "counselling_backend/internals/helpers"
)

// EventUserRoutes exposes the read side to every signed-in user.
func EventUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewEventController(service.NewEventService(db), helper.NewValidator())

	e := r.Group("/events")
	e.Get("/", ctl.List)
	e.Get("/calendar", ctl.Calendar)
	e.Get("/:id", ctl.Get)
}

func EventAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewEventController(service.NewEventService(db), helper.NewValidator())

	e := r.Group("/events")
	e.Post("/", ctl.Create)
	e.Post("/bulk-delete", ctl.BulkDelete)
	e.Patch("/:id", ctl.Update)
	e.Delete("/:id", ctl.Delete)
}
