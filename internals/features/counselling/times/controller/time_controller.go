package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"counselling_backend/internals/features/counselling/times/dto"
	"counselling_backend/internals/features/counselling/times/service"
	helper "counselling_backend/internals/helpers"
	helperAuth "counselling_backend/internals/helpers/auth"
	"counselling_backend/internals/helpers/dbtime"
)

type TimeController struct {
	Svc      *service.AvailabilityService
	Validate *validator.Validate
}

func NewTimeController(svc *service.AvailabilityService, v *validator.Validate) *TimeController {
	return &TimeController{Svc: svc, Validate: v}
}

// owner picks whose templates a request touches: admins may pass ?counsellor_id=.
func owner(c *fiber.Ctx, actor helperAuth.ActingUser) (uuid.UUID, error) {
	if actor.IsAdmin() {
		id, err := helper.ParseUUIDQuery(c, "counsellor_id")
		if err != nil {
			return uuid.Nil, err
		}
		if id != uuid.Nil {
			return id, nil
		}
	}
	return actor.ID, nil
}

// GET /times
func (ctl *TimeController) ListOwn(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	uid, err := owner(c, actor)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	rows, err := ctl.Svc.ListOwn(c.UserContext(), uid)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModels(rows))
}

// POST /times
func (ctl *TimeController) Set(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	uid, err := owner(c, actor)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.SetTimeRequest
	if err := helper.BindJSON(c, ctl.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}

	res, err := ctl.Svc.SetAvailability(c.UserContext(), uid, req.Day, req.Times)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	switch {
	case res.Deleted:
		return helper.JsonDeleted(c, "Time deleted successfully", nil)
	case res.Created:
		return helper.JsonCreated(c, "Time created successfully", dto.FromModel(res.Time))
	default:
		return helper.JsonUpdated(c, "Time updated successfully", dto.FromModel(res.Time))
	}
}

// PUT /times/:id/remove
func (ctl *TimeController) Remove(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.RemoveTimeRequest
	if err := helper.BindJSON(c, ctl.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}

	left, err := ctl.Svc.RemoveIntervals(c.UserContext(), actor, id, req.Times, req.Reason)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	if left == nil {
		return helper.JsonDeleted(c, "Time deleted successfully", nil)
	}
	return helper.JsonUpdated(c, "Time updated successfully", dto.FromModel(left))
}

// GET /times/logs
func (ctl *TimeController) Logs(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	uid, err := owner(c, actor)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	rows, err := ctl.Svc.RemovalLogs(c.UserContext(), uid)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromRemovalLogs(rows))
}

// GET /times/:counsellor_id/available?day=&date=
func (ctl *TimeController) Available(c *fiber.Ctx) error {
	cid, err := helper.ParseUUIDParam(c, "counsellor_id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	dateStr := strings.TrimSpace(c.Query("date"))
	if dateStr == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "date is required")
	}
	date, err := dbtime.ParseDate(dateStr)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	free, err := ctl.Svc.GetAvailableIntervals(c.UserContext(), cid, c.Query("day"), date)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", free)
}

// GET /times/:counsellor_id/days
func (ctl *TimeController) Days(c *fiber.Ctx) error {
	cid, err := helper.ParseUUIDParam(c, "counsellor_id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	days, err := ctl.Svc.ListAvailableDays(c.UserContext(), cid)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", days)
}
