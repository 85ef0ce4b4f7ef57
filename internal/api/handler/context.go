package handler

import (
	"github.com/labstack/echo/v4"
)

// actorID extracts the authenticated caller's id injected by the Auth
// middleware. Empty for anonymous callers on optional-auth routes; audit
// events then record an unattributed mutation rather than failing.
func actorID(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}
