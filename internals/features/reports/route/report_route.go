package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"counselling_backend/internals/features/reports/controller"
	"counselling_backend/internals/features/reports/service"
)

func ReportAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewReportController(service.NewReportService(db), service.NewDashboardService(db))

	r.Get("/report", ctl.Report)
	r.Get("/dashboard", ctl.GetDashboard)
}
