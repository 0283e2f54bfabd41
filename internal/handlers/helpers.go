package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/linkup-app/backend/internal/models"
	"github.com/linkup-app/backend/pkg/apperrors"
)

// currentUserID extracts the authenticated user's id from the JWT claims
// stashed by the auth middleware.
func currentUserID(c echo.Context) uint {
	claims := c.Get("user").(*models.JwtCustomClaims)
	return claims.UserID
}

// serviceError maps a service-layer error onto an HTTP error response.
func serviceError(err error) *echo.HTTPError {
	code := apperrors.CodeOf(err)
	status := apperrors.HTTPStatus(code)
	if status == http.StatusInternalServerError {
		return echo.NewHTTPError(status, "internal error")
	}
	return echo.NewHTTPError(status, err.Error())
}
