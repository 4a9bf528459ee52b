package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/neuroscan/scan-api/internal/core/ports"
)

// UserContextKey is the echo context key the resolved session user is
// stored under. Handlers behind the Session middleware read it back.
const UserContextKey = "user"

// Session validates the bearer session token and stores the resolved user
// in the request context under UserContextKey. Resolution failures flow to
// the central error handler: codec failures map to 401, a vanished user to
// 404.
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := auth.ResolveSession(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}
