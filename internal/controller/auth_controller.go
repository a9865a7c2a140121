package controller

import (
	"booklog-be/internal/dto"
	"booklog-be/internal/entity"
	"booklog-be/internal/pkg/apperror"
	"booklog-be/internal/pkg/serverutils"
	"booklog-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	GuestLogin(ctx *fiber.Ctx) error
	SignupForm(ctx *fiber.Ctx) error
	Signup(ctx *fiber.Ctx) error
	LoginForm(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type authController struct {
	service      service.IAuthService
	guestService service.IGuestService
	sessions     *serverutils.SessionManager
	loginPath    string
}

func NewAuthController(
	service service.IAuthService,
	guestService service.IGuestService,
	sessions *serverutils.SessionManager,
	loginPath string,
) IAuthController {
	return &authController{
		service:      service,
		guestService: guestService,
		sessions:     sessions,
		loginPath:    loginPath,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	r.Get("/guest-login", c.GuestLogin)
	r.Get("/signup", c.SignupForm)
	r.Post("/signup", c.Signup)
	r.Get(c.loginPath, c.LoginForm)
	r.Post(c.loginPath, c.Login)
	r.Post("/logout", c.Logout)
	r.Get("/me", serverutils.RequireIdentity(c.loginPath), c.Me)
}

// GuestLogin signs the request in as the shared demo account.
func (c *authController) GuestLogin(ctx *fiber.Ctx) error {
	identity, err := c.guestService.Enter(ctx.UserContext())
	if err != nil {
		return err
	}

	if err := c.sessions.Issue(ctx, identity); err != nil {
		return err
	}
	return redirectSeeOther(ctx, "/books")
}

func (c *authController) SignupForm(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Signup form", dto.NewForm(dto.SignupRequest{}, nil)))
}

func (c *authController) Signup(ctx *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	if err := serverutils.ValidateRequest(&req); err != nil {
		return renderInvalidForm(ctx, req.Redacted(), err)
	}

	user, err := c.service.Signup(ctx.UserContext(), &req)
	if err != nil {
		return renderInvalidForm(ctx, req.Redacted(), err)
	}

	if err := c.sessions.Issue(ctx, entity.IdentityOf(user.Id)); err != nil {
		return err
	}
	return redirectSeeOther(ctx, "/books")
}

func (c *authController) LoginForm(ctx *fiber.Ctx) error {
	form := dto.LoginRequest{Next: serverutils.SafeNext(ctx.Query("next"))}
	return ctx.JSON(serverutils.SuccessResponse("Login form", dto.NewForm(form, nil)))
}

// Login sends the user back to ?next= when it is a local path.
func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}
	if req.Next == "" {
		req.Next = ctx.Query("next")
	}

	if err := serverutils.ValidateRequest(&req); err != nil {
		return renderInvalidForm(ctx, req.Redacted(), err)
	}

	user, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		if apperror.StatusOf(err) == fiber.StatusUnauthorized {
			return renderForm(ctx, fiber.StatusUnauthorized, req.Redacted(), err.Error(),
				map[string]string{"email": err.Error()})
		}
		return err
	}

	if err := c.sessions.Issue(ctx, entity.IdentityOf(user.Id)); err != nil {
		return err
	}
	return redirectSeeOther(ctx, serverutils.SafeNext(req.Next))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	c.sessions.Clear(ctx)
	return redirectSeeOther(ctx, c.loginPath)
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	res, err := c.service.Me(ctx.UserContext(), serverutils.CurrentIdentity(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Current user", res))
}
