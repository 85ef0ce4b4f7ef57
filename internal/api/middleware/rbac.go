package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exlity/admin-backend/internal/core/domain"
	"github.com/exlity/admin-backend/internal/core/ports"
)

// RequireAdmin restricts a route to callers whose users-table record carries
// the admin role. The role lives in application storage, not the JWT, so the
// check resolves the caller through the identity service.
func RequireAdmin(identity ports.Identity) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			me, err := identity.Me(c.Request().Context())
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			if me["role"] != domain.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}
