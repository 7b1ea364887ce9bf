package middleware

import (
	"context"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// DashboardUserIDClaim is the custom claim carrying the dashboard user ID.
// Firebase reserves "user_id" for the UID.
const DashboardUserIDClaim = "dashboard_user_id"

// TokenVerifier verifies Firebase ID tokens; *auth.Client implements it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware verifies Firebase ID tokens. The dashboard user ID is
// read from the "dashboard_user_id" custom claim set when the account was provisioned.
func FirebaseAuthMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			token, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			// JSON numbers decode as float64
			raw, ok := token.Claims[DashboardUserIDClaim].(float64)
			if !ok || raw <= 0 {
				return echo.NewHTTPError(http.StatusForbidden, "Account is not linked to a dashboard user")
			}

			c.Set("firebaseUID", token.UID)
			c.Set(UserIDKey, uint(raw))

			return next(c)
		}
	}
}
