package controller

import (
	"github.com/gofiber/fiber/v2"

	"counselling_backend/internals/features/home/notifications/dto"
	"counselling_backend/internals/features/home/notifications/service"
	helper "counselling_backend/internals/helpers"
	helperAuth "counselling_backend/internals/helpers/auth"
)

type NotificationController struct {
	Feed *service.FeedService
}

func NewNotificationController(feed *service.FeedService) *NotificationController {
	return &NotificationController{Feed: feed}
}

// 🟢 GET /notifications  (marks the returned page as read)
func (ctrl *NotificationController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)

	rows, total, err := ctrl.Feed.Fetch(c.UserContext(), actor.ID, p.Limit, p.Offset)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// 🟢 GET /notifications/unread-count
func (ctrl *NotificationController) UnreadCount(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	n, err := ctrl.Feed.UnreadCount(c.UserContext(), actor.ID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{"unread": n})
}
