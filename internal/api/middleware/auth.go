package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/exlity/admin-backend/internal/core/domain"
)

// Auth validates the backend-issued JWT (HS256, shared project secret),
// injects its claims into the echo context, and attaches the raw token to the
// request context so downstream services can call the auth backend on the
// caller's behalf.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}
			if err := attachClaims(c, token, jwtSecret); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// OptionalAuth attaches the caller's identity when a valid bearer token is
// present and lets the request through anonymously otherwise. Endpoints whose
// behaviour degrades gracefully for anonymous callers (session checks, login)
// use this instead of Auth.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err == nil {
				if err := attachClaims(c, token, jwtSecret); err != nil {
					// Invalid token on an optional route degrades to anonymous.
					return next(c)
				}
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}

func attachClaims(c echo.Context, token, jwtSecret string) error {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	c.Set("user_id", claims["sub"])
	c.Set("email", claims["email"])

	ctx := domain.WithAccessToken(c.Request().Context(), token)
	c.SetRequest(c.Request().WithContext(ctx))
	return nil
}
