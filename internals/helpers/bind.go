package helper

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var errBadBody = fiber.NewError(fiber.StatusBadRequest, "invalid request body")

// BindJSON decodes the request body into req and validates it when v is set.
func BindJSON(c *fiber.Ctx, v *validator.Validate, req any) error {
	if err := c.BodyParser(req); err != nil {
		return errBadBody
	}
	if v == nil {
		return nil
	}
	return v.Struct(req)
}

// JsonBindError writes the response for an error returned by BindJSON.
func JsonBindError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ValidationError(c, err)
	}
	return JsonAppError(c, err)
}
