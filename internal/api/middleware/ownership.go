package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// RequireOwner allows the request only when the authenticated identity equals
// the user id in the named path parameter. It fails closed: a missing
// identity or an unparsable parameter is also Forbidden. Must run after Auth.
func RequireOwner(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrForbidden
			}

			pathID, err := strconv.ParseInt(c.Param(param), 10, 64)
			if err != nil || pathID != id.UserID {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
