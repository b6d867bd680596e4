package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	notifService "counselling_backend/internals/features/home/notifications/service"
	"counselling_backend/internals/features/users/users/controller"
	"counselling_backend/internals/features/users/users/service"
	helper "counselling_backend/internals/helpers"
)

// UserRoutes: any signed-in role.
func UserRoutes(r fiber.Router, db *gorm.DB, pub notifService.Publisher) {
	ctl := controller.NewUserController(service.NewUserService(db, pub), helper.NewValidator())

	u := r.Group("/users")
	u.Get("/profile", ctl.Profile)
	u.Get("/counsellors", ctl.Counsellors)
}

// UserAdminRoutes: account management.
func UserAdminRoutes(r fiber.Router, db *gorm.DB, pub notifService.Publisher) {
	ctl := controller.NewUserController(service.NewUserService(db, pub), helper.NewValidator())

	u := r.Group("/users")
	u.Post("/", ctl.Create)
	u.Post("/bulk", ctl.BulkCreate)
	u.Post("/bulk-delete", ctl.BulkDelete)
	u.Get("/", ctl.List)
	u.Get("/student/:gr", ctl.GetStudent)
	u.Get("/:id", ctl.Get)
	u.Put("/:id", ctl.Update)
	u.Delete("/:id", ctl.Delete)
}
