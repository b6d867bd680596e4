package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"counselling_backend/internals/features/counselling/times/controller"
	"counselling_backend/internals/features/counselling/times/service"
	helper "counselling_backend/internals/helpers"
)

// TimePublicRoutes: booking screens look up free slots before signing in.
func TimePublicRoutes(r fiber.Router, db *gorm.DB, slackDays int) {
	ctl := controller.NewTimeController(service.NewAvailabilityService(db, slackDays), helper.NewValidator())

	t := r.Group("/times")
	t.Get("/:counsellor_id/available", ctl.Available)
	t.Get("/:counsellor_id/days", ctl.Days)
}

// TimeCounsellorRoutes: counsellors manage their own weekly templates. guard
// is scoped to the /times prefix.
func TimeCounsellorRoutes(r fiber.Router, db *gorm.DB, slackDays int, guard ...fiber.Handler) {
	ctl := controller.NewTimeController(service.NewAvailabilityService(db, slackDays), helper.NewValidator())

	t := r.Group("/times", guard...)
	t.Get("/", ctl.ListOwn)
	t.Get("/logs", ctl.Logs)
	t.Post("/", ctl.Set)
	t.Put("/:id/remove", ctl.Remove)
}
