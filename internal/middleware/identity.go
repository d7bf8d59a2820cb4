package middleware

// identity.go defines helper functions shared across middleware files:
// extracting the authenticated user id for rate-limit and cache keys.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userKey returns the authenticated account id as a string for use in
// Redis keys. It returns "guest" when no user is authenticated, which
// happens on routes that run before JWTAuth (the auth endpoints).
func userKey(c echo.Context) string {
	if v := c.Get(CtxUserID); v != nil {
		if id, ok := v.(uint64); ok && id != 0 {
			return strconv.FormatUint(id, 10)
		}
	}
	return "guest"
}
