package controller

import (
	"booklog-be/internal/dto"
	"booklog-be/internal/pkg/serverutils"
	"booklog-be/internal/repository/specification"
	"booklog-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBookController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	NewForm(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	EditForm(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type bookController struct {
	service   service.IBookService
	loginPath string
}

func NewBookController(service service.IBookService, loginPath string) IBookController {
	return &bookController{service: service, loginPath: loginPath}
}

func (c *bookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/books", serverutils.RequireIdentity(c.loginPath))
	h.Get("", c.List)
	// /new must be registered before /:id.
	h.Get("/new", c.NewForm)
	h.Post("/new", c.Create)
	h.Get("/:id", c.Show)
	h.Get("/:id/edit", c.EditForm)
	h.Post("/:id/edit", c.Update)
	h.Post("/:id/delete", c.Delete)
}

func (c *bookController) List(ctx *fiber.Ctx) error {
	identity := serverutils.CurrentIdentity(ctx)
	page := specification.ParsePageNumber(ctx.Query("page"))

	res, err := c.service.List(ctx.UserContext(), identity, ctx.Query("query"), page)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list books", res))
}

func (c *bookController) NewForm(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("New book form", dto.NewForm(dto.BookFormRequest{}, nil)))
}

func (c *bookController) Create(ctx *fiber.Ctx) error {
	var req dto.BookFormRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	if err := serverutils.ValidateRequest(&req); err != nil {
		return renderInvalidForm(ctx, req, err)
	}

	if _, err := c.service.Create(ctx.UserContext(), serverutils.CurrentIdentity(ctx), &req); err != nil {
		return renderInvalidForm(ctx, req, err)
	}

	return redirectSeeOther(ctx, "/books")
}

func (c *bookController) Show(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), serverutils.CurrentIdentity(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show book", res))
}

func (c *bookController) EditForm(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.EditForm(ctx.UserContext(), serverutils.CurrentIdentity(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Edit book form", res))
}

func (c *bookController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.BookFormRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	if err := serverutils.ValidateRequest(&req); err != nil {
		// Out-of-scope books answer not found even when the form is invalid.
		if _, ferr := c.service.EditForm(ctx.UserContext(), serverutils.CurrentIdentity(ctx), id); ferr != nil {
			return ferr
		}
		return renderInvalidForm(ctx, req, err)
	}

	if err := c.service.Update(ctx.UserContext(), serverutils.CurrentIdentity(ctx), id, &req); err != nil {
		return renderInvalidForm(ctx, req, err)
	}

	return redirectSeeOther(ctx, bookPath(id))
}

func (c *bookController) Delete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), serverutils.CurrentIdentity(ctx), id); err != nil {
		return err
	}

	return redirectSeeOther(ctx, "/books")
}
