package serverutils

import (
	"net/url"
	"strings"

	"booklog-be/internal/entity"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// IdentityMiddleware resolves the acting identity from the session cookie or
// an "Authorization: Bearer" header. A missing, expired or forged token
// simply leaves the request anonymous.
func IdentityMiddleware(sessions *SessionManager) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		identity := entity.Anonymous()

		tokenStr := ctx.Cookies(sessions.CookieName())
		if tokenStr == "" {
			authHeader := ctx.Get(fiber.HeaderAuthorization)
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				tokenStr = authHeader[7:]
			}
		}

		if tokenStr != "" {
			if parsed, err := sessions.Parse(tokenStr); err == nil {
				identity = parsed
			}
		}

		ctx.Locals(identityKey, identity)
		return ctx.Next()
	}
}

// CurrentIdentity returns the identity resolved by IdentityMiddleware, or
// anonymous when the middleware did not run.
func CurrentIdentity(ctx *fiber.Ctx) entity.Identity {
	identity, ok := ctx.Locals(identityKey).(entity.Identity)
	if !ok {
		return entity.Anonymous()
	}
	return identity
}

// RequireIdentity redirects anonymous requests to the login page, carrying
// the original path and query in ?next= so the user lands back there.
func RequireIdentity(loginPath string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !CurrentIdentity(ctx).IsAnonymous() {
			return ctx.Next()
		}
		return ctx.Redirect(LoginRedirect(loginPath, ctx.OriginalURL()), fiber.StatusFound)
	}
}

// LoginRedirect builds "<loginPath>?next=<escaped target>". Slashes stay
// readable: /login?next=/books/3.
func LoginRedirect(loginPath, target string) string {
	next := strings.ReplaceAll(url.QueryEscape(target), "%2F", "/")
	return loginPath + "?next=" + next
}

// SafeNext accepts only a local absolute path as a post-login target.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/books"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/books"
	}
	return next
}
