package middleware

import (
	"net/http"

	"venture_claims_go/services"

	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session_token"

// UserContextKey is where RequireAuth stores the authenticated user
const UserContextKey = "user"

// RequireAuth rejects requests without a valid session cookie
func RequireAuth(auth *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			user, err := auth.ValidateSession(c.Request().Context(), cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}
