package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// Context keys set by Auth.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// TokenVerifier decodes a bearer token into the caller's identity.
type TokenVerifier interface {
	VerifyToken(token string) (*domain.Identity, error)
}

// Auth requires a valid bearer token and stores the identity on the context.
// A missing or malformed header and an expired token are 401; any other
// verification failure is 403.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrMissingToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrMissingToken
			}

			id, err := verifier.VerifyToken(strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}

			c.Set(ContextUserID, id.UserID)
			c.Set(ContextEmail, id.Email)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	id, ok := c.Get(ContextUserID).(int64)
	if !ok || id <= 0 {
		return nil, false
	}
	email, _ := c.Get(ContextEmail).(string)
	return &domain.Identity{UserID: id, Email: email}, true
}
