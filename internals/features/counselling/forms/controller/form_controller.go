package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"counselling_backend/internals/features/counselling/forms/dto"
	"counselling_backend/internals/features/counselling/forms/service"
	helper "counselling_backend/internals/helpers"
	helperAuth "counselling_backend/internals/helpers/auth"
)

type FormController struct {
	Service  *service.FormService
	Validate *validator.Validate
}

func NewFormController(svc *service.FormService, v *validator.Validate) *FormController {
	return &FormController{Service: svc, Validate: v}
}

// POST /forms
func (ctl *FormController) Create(c *fiber.Ctx) error {
	var req dto.CreateFormRequest
	if err := helper.BindJSON(c, ctl.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}

	m := req.ToModel()
	if err := ctl.Service.Create(c.UserContext(), helperAuth.ActingUserOrAnonymous(c), m); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Form created", dto.FromModel(m))
}

// GET /forms/:id
func (ctl *FormController) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id is not a valid id")
	}
	f, err := ctl.Service.Get(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(f))
}
