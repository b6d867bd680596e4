package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"counselling_backend/internals/helpers/apperr"
	"counselling_backend/internals/helpers/applog"
)

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindInvalidState:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindPartialFailure:
		return fiber.StatusMultiStatus
	default:
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe.Code
		}
		return fiber.StatusInternalServerError
	}
}

// JsonAppError writes a service error with the standard error envelope.
// Internal causes are logged, never written to the client.
func JsonAppError(c *fiber.Ctx, err error) error {
	status := StatusOf(err)

	var ae *apperr.Error
	if !errors.As(err, &ae) {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return JsonError(c, fe.Code, fe.Message)
		}
		applog.WithComponent("http").Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return JsonError(c, status, "internal server error")
	}

	switch ae.Kind {
	case apperr.KindInternal:
		applog.WithComponent("http").Error().Err(err).Str("path", c.Path()).Msg("internal error")
		return JsonError(c, status, ae.Message)
	case apperr.KindInvalidState:
		return c.Status(status).JSON(ErrorResponse{
			Success:   false,
			Message:   ae.Message,
			ErrorCode: "INVALID_STATE",
		})
	case apperr.KindPartialFailure:
		return JsonPartial(c, ae.Message, ae.FailedIDs)
	default:
		return JsonError(c, status, ae.Message)
	}
}

// JsonPartial reports a bulk operation where some items failed (207).
func JsonPartial(c *fiber.Ctx, message string, failedIDs []string) error {
	if failedIDs == nil {
		failedIDs = []string{}
	}
	return c.Status(fiber.StatusMultiStatus).JSON(fiber.Map{
		"success":    false,
		"message":    message,
		"error_code": "PARTIAL_FAILURE",
		"failed_ids": failedIDs,
	})
}
