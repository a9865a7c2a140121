package serverutils

import (
	"errors"
	"fmt"
	"time"

	"booklog-be/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionManager issues and reads the signed session token. The token is a
// HS256 JWT carried in an HttpOnly cookie, or as a Bearer token for API use.
type SessionManager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewSessionManager(secret, cookieName string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		secret:     []byte(secret),
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

func (m *SessionManager) CookieName() string {
	return m.cookieName
}

// Sign creates a token for identity that expires after the session TTL.
func (m *SessionManager) Sign(identity entity.Identity) (string, error) {
	if identity.IsAnonymous() {
		return "", errors.New("cannot sign a session for an anonymous identity")
	}

	claims := jwt.MapClaims{
		"user_id": identity.UserId.String(),
		"exp":     time.Now().Add(m.ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies tokenStr and returns the identity it carries.
func (m *SessionManager) Parse(tokenStr string) (entity.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return entity.Anonymous(), err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return entity.Anonymous(), errors.New("invalid claims")
	}

	raw, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(raw)
	if err != nil {
		return entity.Anonymous(), fmt.Errorf("invalid user_id claim: %w", err)
	}
	return entity.IdentityOf(userId), nil
}

// Issue signs a session for identity and sets it as the session cookie.
func (m *SessionManager) Issue(ctx *fiber.Ctx, identity entity.Identity) error {
	token, err := m.Sign(identity)
	if err != nil {
		return err
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(m.ttl),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (m *SessionManager) Clear(ctx *fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
