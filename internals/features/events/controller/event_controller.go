package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"counselling_backend/internals/features/events/dto"
	"counselling_backend/internals/features/events/service"
	helper "counselling_backend/internals/helpers"
	helperAuth "counselling_backend/internals/helpers/auth"
)

type EventController struct {
	Svc      *service.EventService
	Validate *validator.Validate
}

func NewEventController(svc *service.EventService, v *validator.Validate) *EventController {
	return &EventController{Svc: svc, Validate: v}
}

func (ec *EventController) bind(c *fiber.Ctx) (service.EventInput, error) {
	var req dto.EventRequest
	if err := helper.BindJSON(c, ec.Validate, &req); err != nil {
		return service.EventInput{}, err
	}
	in, err := req.ToInput()
	if err != nil {
		return in, fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	return in, nil
}

// POST /events
func (ec *EventController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	in, err := ec.bind(c)
	if err != nil {
		return helper.JsonBindError(c, err)
	}
	m, err := ec.Svc.Create(c.UserContext(), actor, in)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Event created successfully", dto.FromModel(m))
}

// PATCH /events/:id
func (ec *EventController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	in, err := ec.bind(c)
	if err != nil {
		return helper.JsonBindError(c, err)
	}
	m, err := ec.Svc.Update(c.UserContext(), id, in)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Event updated successfully", dto.FromModel(m))
}

// GET /events/:id
func (ec *EventController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	m, err := ec.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Event found", dto.FromModel(m))
}

// GET /events?search=&page=&per_page=
func (ec *EventController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 10, 100)
	rows, total, err := ec.Svc.List(c.UserContext(), c.Query("search"), p.Limit, p.Offset)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /events/calendar
func (ec *EventController) Calendar(c *fiber.Ctx) error {
	rows, err := ec.Svc.Calendar(c.UserContext())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// DELETE /events/:id
func (ec *EventController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	if err := ec.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Event deleted successfully", fiber.Map{"id": id})
}

// POST /events/bulk-delete
func (ec *EventController) BulkDelete(c *fiber.Ctx) error {
	var req dto.BulkDeleteRequest
	if err := helper.BindJSON(c, ec.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}
	if err := ec.Svc.BulkDelete(c.UserContext(), req.IDs); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Events deleted successfully", nil)
}
