package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"counselling_backend/internals/features/counselling/types/dto"
	"counselling_backend/internals/features/counselling/types/service"
	helper "counselling_backend/internals/helpers"
)

type TypeController struct {
	Svc      *service.TypeService
	Validate *validator.Validate
}

func NewTypeController(svc *service.TypeService, v *validator.Validate) *TypeController {
	return &TypeController{Svc: svc, Validate: v}
}

// GET /counselling-types?search=&page=&per_page=
func (tc *TypeController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 10, 100)
	rows, total, err := tc.Svc.List(c.UserContext(), c.Query("search"), p.Limit, p.Offset)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// POST /counselling-types
func (tc *TypeController) Create(c *fiber.Ctx) error {
	var req dto.TypeRequest
	if err := helper.BindJSON(c, tc.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}
	m, err := tc.Svc.Create(c.UserContext(), req.Name)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Counselling type created successfully", dto.FromModel(m))
}

// PUT /counselling-types/:id
func (tc *TypeController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.TypeRequest
	if err := helper.BindJSON(c, tc.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}
	m, err := tc.Svc.Update(c.UserContext(), id, req.Name)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Counselling type updated successfully", dto.FromModel(m))
}

// DELETE /counselling-types/:id
func (tc *TypeController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	if err := tc.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Counselling type deleted successfully", fiber.Map{"id": id})
}

// POST /counselling-types/bulk-delete
func (tc *TypeController) BulkDelete(c *fiber.Ctx) error {
	var req dto.BulkDeleteRequest
	if err := helper.BindJSON(c, tc.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}
	if err := tc.Svc.BulkDelete(c.UserContext(), req.IDs); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Counselling types deleted successfully", nil)
}
