package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"counselling_backend/internals/constants"
)

// Locals keys set by the JWT middleware.
const (
	LocUserID   = "user_id"
	LocUserRole = "userRole"
	LocUserName = "user_name"
)

// ActingUser is the caller of an engine operation.
type ActingUser struct {
	ID   uuid.UUID
	Role string
	Name string
}

func (a ActingUser) IsAdmin() bool      { return a.Role == constants.RoleAdmin }
func (a ActingUser) IsCounsellor() bool { return a.Role == constants.RoleCounsellor }
func (a ActingUser) IsZero() bool       { return a.ID == uuid.Nil }

// Anonymous is used for public endpoints (intake requests).
var Anonymous = ActingUser{Role: constants.RoleStudent}

// GetActingUser reads the identity stored by the JWT middleware.
// 401 when missing, 400 when the stored id is malformed.
func GetActingUser(c *fiber.Ctx) (ActingUser, error) {
	v := c.Locals(LocUserID)
	if v == nil {
		return ActingUser{}, fiber.NewError(fiber.StatusUnauthorized, "not logged in")
	}

	var id uuid.UUID
	switch t := v.(type) {
	case uuid.UUID:
		id = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return ActingUser{}, fiber.NewError(fiber.StatusUnauthorized, "not logged in")
		}
		parsed, err := uuid.Parse(s)
		if err != nil {
			return ActingUser{}, fiber.NewError(fiber.StatusBadRequest, "invalid user id in token")
		}
		id = parsed
	default:
		return ActingUser{}, fiber.NewError(fiber.StatusBadRequest, "invalid user id in token")
	}
	if id == uuid.Nil {
		return ActingUser{}, fiber.NewError(fiber.StatusUnauthorized, "not logged in")
	}

	role, _ := c.Locals(LocUserRole).(string)
	name, _ := c.Locals(LocUserName).(string)
	return ActingUser{ID: id, Role: strings.ToLower(strings.TrimSpace(role)), Name: name}, nil
}

// ActingUserOrAnonymous is for routes that accept both public and signed-in callers.
func ActingUserOrAnonymous(c *fiber.Ctx) ActingUser {
	if a, err := GetActingUser(c); err == nil {
		return a
	}
	return Anonymous
}
