package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/landsurveyors/directory-api/internal/core/domain"
	"github.com/landsurveyors/directory-api/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	// Keeps (page-1)*limit inside a Postgres int4 OFFSET.
	maxPage = math.MaxInt32 / maxLimit
)

// DirectoryHandler serves the public, unauthenticated read endpoints.
type DirectoryHandler struct {
	profiles  ports.ProfileService
	reference ports.ReferenceService
}

func NewDirectoryHandler(profiles ports.ProfileService, reference ports.ReferenceService) *DirectoryHandler {
	return &DirectoryHandler{profiles: profiles, reference: reference}
}

// List handles GET /api/surveyors.
//
// @Summary      List surveyors
// @Tags         directory
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1, max 21474836)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  domain.Page[domain.Surveyor]
// @Failure      400    {object}  errorResponse
// @Router       /surveyors [get]
func (h *DirectoryHandler) List(c echo.Context) error {
	page, err := queryInt(c, "page", defaultPage, 1, maxPage)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", defaultLimit, 1, maxLimit)
	if err != nil {
		return err
	}

	result, err := h.profiles.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ServiceCategories handles GET /api/reference/services.
//
// @Summary      List service categories with subcategories
// @Tags         reference
// @Produce      json
// @Success      200  {array}  domain.ServiceCategory
// @Router       /reference/services [get]
func (h *DirectoryHandler) ServiceCategories(c echo.Context) error {
	cats, err := h.reference.ServiceCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cats)
}

// Counties handles GET /api/reference/counties.
//
// @Summary      List counties
// @Tags         reference
// @Produce      json
// @Success      200  {array}  domain.County
// @Router       /reference/counties [get]
func (h *DirectoryHandler) Counties(c echo.Context) error {
	counties, err := h.reference.Counties(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counties)
}

// queryInt reads an integer query parameter. A zero hi means no upper bound.
func queryInt(c echo.Context, name string, def, lo, hi int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || (hi > 0 && v > hi) {
		msg := name + " must be an integer >= " + strconv.Itoa(lo)
		if hi > 0 {
			msg += " and <= " + strconv.Itoa(hi)
		}
		return 0, domain.NewValidationError([]domain.FieldError{{Field: name, Message: msg, Value: raw}})
	}
	return v, nil
}
