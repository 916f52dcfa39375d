package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// pathID parses the :id route parameter. RequireOwner has already compared
// it against the caller, so a parse failure here means the route was wired
// without the gate.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError([]domain.FieldError{{
			Field:   "id",
			Message: "id must be a positive integer",
			Value:   c.Param("id"),
		}})
	}
	return id, nil
}

// normalizer is implemented by request types that clean their own input.
type normalizer interface {
	normalize()
}

// bindAndValidate decodes the request body into req, normalizes it and runs
// the validator. Validation always sees the normalized values.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidPayload.Wrap(err)
	}
	if n, ok := req.(normalizer); ok {
		n.normalize()
	}
	return c.Validate(req)
}

var errInvalidPayload = &domain.Error{
	Kind:    domain.KindValidation,
	Code:    "INVALID_PAYLOAD",
	Message: "invalid payload",
}
