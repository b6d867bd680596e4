package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"counselling_backend/internals/features/counselling/sessions/controller"
	"counselling_backend/internals/features/counselling/sessions/service"
	notifService "counselling_backend/internals/features/home/notifications/service"
	helper "counselling_backend/internals/helpers"
)

// SessionPublicRoutes: intake requests, no token needed.
func SessionPublicRoutes(r fiber.Router, db *gorm.DB, pub notifService.Publisher, mw ...fiber.Handler) {
	ctl := controller.NewSessionController(service.NewEngine(db, pub), helper.NewValidator())

	r.Post("/sessions", append(mw, ctl.Create)...)
}

// SessionUserRoutes: any signed-in role.
func SessionUserRoutes(r fiber.Router, db *gorm.DB, pub notifService.Publisher) {
	engine := service.NewEngine(db, pub)
	v := helper.NewValidator()
	sessions := controller.NewSessionController(engine, v)
	cases := controller.NewCaseController(engine, v)

	s := r.Group("/sessions")
	s.Get("/", sessions.List)
	s.Get("/:id", sessions.Get)
	s.Put("/:id/accept", sessions.Accept)
	s.Put("/:id/reschedule", sessions.Reschedule)
	s.Put("/:id/cancel", sessions.Cancel)

	cs := r.Group("/cases")
	cs.Get("/", cases.List)
	cs.Get("/:id", cases.Get)
	cs.Post("/:id/entries", cases.AddEntry)
	cs.Put("/:id/remarks", cases.AddRemark)
}
