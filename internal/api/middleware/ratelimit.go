package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/exlity/admin-backend/internal/api/metrics"
	"github.com/exlity/admin-backend/internal/core/ports"
)

// LoginRateLimit throttles login attempts per client IP. When the throttle
// backend is unreachable the limiter fails open: an unavailable Redis must not
// lock everyone out.
func LoginRateLimit(throttle ports.LoginThrottle, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, err := throttle.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Msg("login throttle unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
			}
			return next(c)
		}
	}
}
