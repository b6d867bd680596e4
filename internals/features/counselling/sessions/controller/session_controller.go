package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"counselling_backend/internals/features/counselling/sessions/dto"
	"counselling_backend/internals/features/counselling/sessions/service"
	helper "counselling_backend/internals/helpers"
	helperAuth "counselling_backend/internals/helpers/auth"
)

/* =========================
   Controller & Constructor
   ========================= */

type SessionController struct {
	Engine   *service.Engine
	Validate *validator.Validate
}

func NewSessionController(engine *service.Engine, v *validator.Validate) *SessionController {
	return &SessionController{Engine: engine, Validate: v}
}

/* =========================
   Handlers
   ========================= */

// POST /sessions
func (ctl *SessionController) Create(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := helper.BindJSON(c, ctl.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}

	actor := helperAuth.ActingUserOrAnonymous(c)
	s, err := ctl.Engine.CreateSession(c.UserContext(), actor, req.ToInput())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Session created successfully", dto.FromSessionModel(s))
}

// PUT /sessions/:id/accept
func (ctl *SessionController) Accept(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	s, err := ctl.Engine.AcceptSession(c.UserContext(), actor, id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Session accepted", dto.FromSessionModel(s))
}

// PUT /sessions/:id/reschedule
func (ctl *SessionController) Reschedule(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.RescheduleSessionRequest
	if err := helper.BindJSON(c, ctl.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}

	s, err := ctl.Engine.RescheduleSession(c.UserContext(), actor, id, req.ToInput())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Session rescheduled", dto.FromSessionModel(s))
}

// PUT /sessions/:id/cancel
func (ctl *SessionController) Cancel(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.CancelSessionRequest
	if err := helper.BindJSON(c, ctl.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}

	if err := ctl.Engine.CancelSession(c.UserContext(), actor, id, strings.TrimSpace(req.Remark)); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Session cancelled", nil)
}

// GET /sessions?status=&search=&page=&per_page=
func (ctl *SessionController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)

	rows, total, err := ctl.Engine.ListSessions(c.UserContext(), actor, service.SessionFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Search: c.Query("search"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromSessionRows(rows), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /sessions/:id
func (ctl *SessionController) Get(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	row, err := ctl.Engine.GetSession(c.UserContext(), actor, id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromSessionRow(row))
}
