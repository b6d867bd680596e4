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

type CaseController struct {
	Engine   *service.Engine
	Validate *validator.Validate
}

func NewCaseController(engine *service.Engine, v *validator.Validate) *CaseController {
	return &CaseController{Engine: engine, Validate: v}
}

// GET /cases?status=
func (ctl *CaseController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)

	views, total, err := ctl.Engine.ListCases(c.UserContext(), actor, service.CaseFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromCaseViews(views), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /cases/:id
func (ctl *CaseController) Get(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	v, err := ctl.Engine.GetCase(c.UserContext(), actor, id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromCaseView(v))
}

// POST /cases/:id/entries
// 201 when the entry scheduled a new session, 200 otherwise.
func (ctl *CaseController) AddEntry(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var req dto.AddEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctl.Engine.AddEntry(c.UserContext(), actor, id, req.ToInput())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	out := dto.FromEntryResult(res)
	if res.NewSession != nil {
		return helper.JsonCreated(c, "Session added to case", out)
	}
	return helper.JsonOK(c, "Case updated", out)
}

// PUT /cases/:id/remarks
func (ctl *CaseController) AddRemark(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.AddRemarkRequest
	if err := helper.BindJSON(c, ctl.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}

	v, err := ctl.Engine.AddRemark(c.UserContext(), actor, id, req.Remark)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Remark added", dto.FromCaseView(v))
}
