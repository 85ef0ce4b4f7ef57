package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exlity/admin-backend/internal/api/metrics"
	"github.com/exlity/admin-backend/internal/core/ports"
)

// AuthHandler exposes the identity operations: login, logout, session
// introspection, and the caller's own profile.
type AuthHandler struct {
	identity ports.Identity
}

func NewAuthHandler(identity ports.Identity) *AuthHandler {
	return &AuthHandler{identity: identity}
}

type loginRequest struct {
	Provider string `json:"provider"`
}

type checkResponse struct {
	Authenticated bool `json:"authenticated"`
}

// Login signs the caller in. The default (or "dev") provider returns a
// session directly; OAuth providers return a redirect URL the client must
// follow.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  false  "Login provider"
// @Success      200   {object}  ports.LoginResult
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.identity.Login(c.Request().Context(), req.Provider)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "login failed")
	}

	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, result)
}

// Logout invalidates the caller's session.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.identity.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's users-table record, provisioning it on first login.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]string
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	record, err := h.identity.Me(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}

// UpdateMe applies a partial update to the caller's own record.
//
// @Summary      Update current user profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]any  true  "Fields to change"
// @Success      200   {object}  map[string]any
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/auth/me [put]
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	record, err := h.identity.UpdateMyUserData(c.Request().Context(), payload)
	if err != nil {
		return err
	}
	if record == nil {
		return echo.NewHTTPError(http.StatusNotFound, "user record not found")
	}
	return c.JSON(http.StatusOK, record)
}

// Check reports whether the caller holds a live session. Always 200.
//
// @Summary      Session check
// @Tags         auth
// @Produce      json
// @Success      200  {object}  checkResponse
// @Router       /v1/auth/check [get]
func (h *AuthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, checkResponse{
		Authenticated: h.identity.IsAuthenticated(c.Request().Context()),
	})
}
