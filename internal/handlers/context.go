package handlers

import (
	"net/http"

	"github.com/anonto42/studio-dashboard/backend/internal/middleware"
	"github.com/anonto42/studio-dashboard/backend/internal/notify"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated user's ID or 0.
func getUserIDFromContext(c echo.Context) uint {
	return middleware.UserID(c)
}

// fail writes the {success: false, error} envelope the UI treats as "state unchanged".
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": msg})
}

func unauthenticated(c echo.Context) error {
	return fail(c, http.StatusUnauthorized, notify.ErrAuthenticationRequired.Error())
}
