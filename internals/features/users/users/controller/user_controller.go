package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"counselling_backend/internals/features/users/users/dto"
	"counselling_backend/internals/features/users/users/service"
	helper "counselling_backend/internals/helpers"
	helperAuth "counselling_backend/internals/helpers/auth"
)

type UserController struct {
	Svc      *service.UserService
	Validate *validator.Validate
}

func NewUserController(svc *service.UserService, v *validator.Validate) *UserController {
	return &UserController{Svc: svc, Validate: v}
}

// ==============================
// CREATE (ADMIN)
// ==============================

// POST /users
func (uc *UserController) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := uc.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	u, err := uc.Svc.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "User created successfully", dto.FromModel(u))
}

// POST /users/bulk  (array body; every row must share one userType)
func (uc *UserController) BulkCreate(c *fiber.Ctx) error {
	var reqs []dto.CreateUserRequest
	if err := c.BodyParser(&reqs); err != nil || len(reqs) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "a non-empty array of users is required")
	}

	inputs := make([]service.CreateUserInput, 0, len(reqs))
	for i := range reqs {
		reqs[i].Normalize()
		if reqs[i].UserType == "" {
			reqs[i].UserType = reqs[0].UserType
		}
		if reqs[i].UserType != reqs[0].UserType {
			return helper.JsonError(c, fiber.StatusBadRequest, "all users in a batch must share one userType")
		}
		if err := uc.Validate.Struct(&reqs[i]); err != nil {
			return helper.ValidationError(c, err)
		}
		inputs = append(inputs, reqs[i].ToInput())
	}

	users, err := uc.Svc.BulkCreate(c.UserContext(), inputs)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, reqs[0].UserType+"s created", dto.FromModelList(users))
}

// ==============================
// READ
// ==============================

// GET /users?type=&search=&page=&per_page=&all=1
func (uc *UserController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 10, 100)
	all := strings.EqualFold(c.Query("all"), "1") || strings.EqualFold(c.Query("all"), "true")

	users, total, err := uc.Svc.List(c.UserContext(), service.UserFilter{
		Type:   c.Query("type"),
		Search: c.Query("search"),
		All:    all,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	if all {
		return helper.JsonList(c, "ok", dto.FromModelList(users), helper.BuildPaginationFromPage(total, 1, len(users)))
	}
	return helper.JsonList(c, "ok", dto.FromModelList(users), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /users/:id
func (uc *UserController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	u, err := uc.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(u))
}

// GET /users/student/:gr
func (uc *UserController) GetStudent(c *fiber.Ctx) error {
	u, err := uc.Svc.GetStudentByReference(c.UserContext(), c.Params("gr"))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "User found", dto.FromModel(u))
}

// GET /users/profile
func (uc *UserController) Profile(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActingUser(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	u, err := uc.Svc.Get(c.UserContext(), actor.ID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(u))
}

// GET /users/counsellors?counsellorType=&counsellor=
func (uc *UserController) Counsellors(c *fiber.Ctx) error {
	exclude, err := helper.ParseUUIDQuery(c, "counsellor")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	rows, err := uc.Svc.Counsellors(c.UserContext(), c.Query("counsellorType"), exclude)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Counsellors found", dto.ToCounsellorOptions(rows))
}

// ==============================
// UPDATE / DELETE (ADMIN)
// ==============================

// PUT /users/:id
func (uc *UserController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.UpdateUserRequest
	if err := helper.BindJSON(c, uc.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}

	u, err := uc.Svc.Update(c.UserContext(), id, req.ToInput())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "User updated successfully", dto.FromModel(u))
}

// POST /users/bulk-delete
func (uc *UserController) BulkDelete(c *fiber.Ctx) error {
	var req dto.BulkDeleteRequest
	if err := helper.BindJSON(c, uc.Validate, &req); err != nil {
		return helper.JsonBindError(c, err)
	}

	// partial failures answer 207 with failed_ids
	if err := uc.Svc.BulkDelete(c.UserContext(), req.IDs); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Users deleted successfully", fiber.Map{"deleted": len(req.IDs)})
}

// DELETE /users/:id
func (uc *UserController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	if err := uc.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "User deleted successfully", fiber.Map{"id": id})
}
