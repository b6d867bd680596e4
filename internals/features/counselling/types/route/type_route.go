package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"counselling_backend/internals/features/counselling/types/controller"
	"counselling_backend/internals/features/counselling/types/service"
	helper "counselling_backend/internals/helpers"
)

func TypeUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewTypeController(service.NewTypeService(db), helper.NewValidator())
	r.Get("/counselling-types", ctl.List)
}

func TypeAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewTypeController(service.NewTypeService(db), helper.NewValidator())

	t := r.Group("/counselling-types")
	t.Get("/", ctl.List)
	t.Post("/", ctl.Create)
	t.Post("/bulk-delete", ctl.BulkDelete)
	t.Put("/:id", ctl.Update)
	t.Delete("/:id", ctl.Delete)
}
