package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/landsurveyors/directory-api/internal/api/metrics"
	"github.com/landsurveyors/directory-api/internal/core/ports"
)

// ProfileHandler serves the owner-only /api/user-profile routes. Ownership is
// enforced by middleware.RequireOwner before any method here runs.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get handles GET /api/user-profile/:id.
//
// @Summary      Get a surveyor profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Surveyor ID"
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user-profile/{id} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	profile, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateInfo handles PUT /api/user-profile/info/:id.
//
// @Summary      Update profile fields
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Surveyor ID"
// @Param        body  body      updateInfoRequest  true  "Fields to change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /user-profile/info/{id} [put]
func (h *ProfileHandler) UpdateInfo(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateInfoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.UpdateInfo(c.Request().Context(), id, toUpdateInfoInput(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Profile updated successfully"})
}

// ChangePassword handles PATCH /api/user-profile/password/:id.
//
// @Summary      Change password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Surveyor ID"
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /user-profile/password/{id} [patch]
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.ChangePassword(c.Request().Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated successfully"})
}

// ReplaceServices handles PUT /api/user-profile/services/:id.
//
// @Summary      Replace offered services
// @Description  Replaces the full set. Unknown subservice names are ignored; an empty list clears the set.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Surveyor ID"
// @Param        body  body      servicesRequest  true  "Service names"
// @Success      200   {object}  associationsResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /user-profile/services/{id} [put]
func (h *ProfileHandler) ReplaceServices(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req servicesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	n, err := h.service.ReplaceServices(c.Request().Context(), id, req.MainServices, req.Subservices)
	if err != nil {
		return err
	}

	recordAssociations("services", req.Subservices, n)
	return c.JSON(http.StatusOK, associationsResponse{Message: "Services updated successfully", Count: n})
}

// ReplaceAreas handles PUT /api/user-profile/areas/:id.
//
// @Summary      Replace served counties
// @Description  Replaces the full set. Unknown county names are ignored; an empty list clears the set.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Surveyor ID"
// @Param        body  body      areasRequest  true  "County names"
// @Success      200   {object}  associationsResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /user-profile/areas/{id} [put]
func (h *ProfileHandler) ReplaceAreas(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req areasRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	n, err := h.service.ReplaceAreas(c.Request().Context(), id, req.Counties)
	if err != nil {
		return err
	}

	recordAssociations("counties", req.Counties, n)
	return c.JSON(http.StatusOK, associationsResponse{Message: "Service areas updated successfully", Count: n})
}

// Delete handles DELETE /api/user-profile/:id.
//
// @Summary      Delete account
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Surveyor ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /user-profile/{id} [delete]
func (h *ProfileHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Account deleted successfully"})
}

// recordAssociations counts written rows and the requested names that did not
// resolve to a reference row.
func recordAssociations(kind string, names []string, written int) {
	metrics.AssociationsWrittenTotal.WithLabelValues(kind).Add(float64(written))

	unique := make(map[string]struct{}, len(names))
	for _, n := range names {
		unique[n] = struct{}{}
	}
	if dropped := len(unique) - written; dropped > 0 {
		metrics.AssociationNamesDroppedTotal.WithLabelValues(kind).Add(float64(dropped))
	}
}
