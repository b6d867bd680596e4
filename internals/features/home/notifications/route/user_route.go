package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"counselling_backend/internals/features/home/notifications/controller"
	"counselling_backend/internals/features/home/notifications/service"
)

func NotificationUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := controller.NewNotificationController(service.NewFeedService(db))

	notification := user.Group("/notifications")
	notification.Get("/", ctrl.List)
	notification.Get("/unread-count", ctrl.UnreadCount)
}
