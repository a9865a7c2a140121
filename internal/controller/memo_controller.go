package controller

import (
	"booklog-be/internal/dto"
	"booklog-be/internal/pkg/serverutils"
	"booklog-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMemoController interface {
	RegisterRoutes(r fiber.Router)
	NewForm(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	EditForm(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type memoController struct {
	service   service.IMemoService
	loginPath string
}

func NewMemoController(service service.IMemoService, loginPath string) IMemoController {
	return &memoController{service: service, loginPath: loginPath}
}

func (c *memoController) RegisterRoutes(r fiber.Router) {
	requireIdentity := serverutils.RequireIdentity(c.loginPath)
	r.Get("/books/:id/memos/new", requireIdentity, c.NewForm)
	r.Post("/books/:id/memos/new", requireIdentity, c.Create)

	h := r.Group("/memos", requireIdentity)
	h.Get("/:id/edit", c.EditForm)
	h.Post("/:id/edit", c.Update)
	h.Post("/:id/delete", c.Delete)
}

func (c *memoController) NewForm(ctx *fiber.Ctx) error {
	bookId, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.NewForm(ctx.UserContext(), serverutils.CurrentIdentity(ctx), bookId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("New memo form", res))
}

// Create adds a memo to the book named in the path. A book field in the
// body, if any, is ignored.
func (c *memoController) Create(ctx *fiber.Ctx) error {
	bookId, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.MemoFormRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	if err := serverutils.ValidateRequest(&req); err != nil {
		if _, ferr := c.service.NewForm(ctx.UserContext(), serverutils.CurrentIdentity(ctx), bookId); ferr != nil {
			return ferr
		}
		return renderInvalidForm(ctx, req, err)
	}

	parentId, err := c.service.Create(ctx.UserContext(), serverutils.CurrentIdentity(ctx), bookId, &req)
	if err != nil {
		return err
	}

	return redirectSeeOther(ctx, bookPath(parentId))
}

func (c *memoController) EditForm(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.EditForm(ctx.UserContext(), serverutils.CurrentIdentity(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Edit memo form", res))
}

func (c *memoController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.MemoFormRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	if err := serverutils.ValidateRequest(&req); err != nil {
		if _, ferr := c.service.EditForm(ctx.UserContext(), serverutils.CurrentIdentity(ctx), id); ferr != nil {
			return ferr
		}
		return renderInvalidForm(ctx, req, err)
	}

	bookId, err := c.service.Update(ctx.UserContext(), serverutils.CurrentIdentity(ctx), id, &req)
	if err != nil {
		return err
	}

	return redirectSeeOther(ctx, bookPath(bookId))
}

func (c *memoController) Delete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	bookId, err := c.service.Delete(ctx.UserContext(), serverutils.CurrentIdentity(ctx), id)
	if err != nil {
		return err
	}

	return redirectSeeOther(ctx, bookPath(bookId))
}
