package serverutils

import (
	"errors"

	"booklog-be/internal/pkg/apperror"
	"booklog-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the fiber.Config ErrorHandler. Domain errors keep their
// status, anything unknown is logged and hidden behind a 500.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		if verr, ok := apperror.AsValidation(err); ok {
			return ctx.Status(verr.StatusCode()).JSON(ErrorResponse(verr.StatusCode(), verr.Message, verr.Fields))
		}

		var httpErr apperror.HTTPError
		if errors.As(err, &httpErr) {
			return ctx.Status(httpErr.StatusCode()).JSON(ErrorResponse(httpErr.StatusCode(), httpErr.Error(), nil))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message, nil))
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, "internal server error", nil))
	}
}

func apperrorStatus(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return apperror.StatusOf(err)
}
