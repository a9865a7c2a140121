package controller

import (
	"strconv"

	"booklog-be/internal/dto"
	"booklog-be/internal/pkg/apperror"
	"booklog-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// paramID reads a numeric path parameter. Anything that is not a positive
// integer cannot name a row, so it is reported as not found.
func paramID(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.NotFound("not found")
	}
	return uint(id), nil
}

// renderInvalidForm answers a failed form submit: the submitted values are
// sent back with one message per field. Errors that are not validation
// errors are passed on to the error handler.
func renderInvalidForm[T any](ctx *fiber.Ctx, values T, err error) error {
	verr, ok := apperror.AsValidation(err)
	if !ok {
		return err
	}

	return renderForm(ctx, verr.StatusCode(), values, verr.Message, verr.Fields)
}

func renderForm[T any](ctx *fiber.Ctx, status int, values T, message string, fields map[string]string) error {
	return ctx.Status(status).JSON(&serverutils.BaseResponse[dto.FormResponse[T]]{
		Success: false,
		Code:    status,
		Message: message,
		Data:    dto.NewForm(values, fields),
		Errors:  fields,
	})
}

func redirectSeeOther(ctx *fiber.Ctx, location string) error {
	return ctx.Redirect(location, fiber.StatusSeeOther)
}

func bookPath(id uint) string {
	return "/books/" + strconv.FormatUint(uint64(id), 10)
}
