package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/streamhub-user-service/internal/utils"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxEmail    = "email"
	CtxFullName = "full_name"
)

// AccessCookieName is where the access token travels when cookie
// delivery is used; the Authorization header is checked as a fallback.
const AccessCookieName = "accessToken"

// JWTAuth returns an Echo middleware that validates an access token and
// injects its claims into the request context. The token is read from
// the accessToken cookie first, then from a Bearer Authorization header.
// Verification is all-or-nothing: an expired or malformed token never
// partially authenticates. Handlers access the authenticated identity
// via c.Get(middleware.CtxUserID) and friends.
func JWTAuth(accessSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing access token"})
			}
			claims, err := utils.VerifyAccessToken(accessSecret, raw)
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid access token"})
			}
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxFullName, claims.FullName)
			return next(c)
		}
	}
}

// tokenFromRequest extracts the raw access token from the cookie or the
// Authorization header, whichever is present.
func tokenFromRequest(c echo.Context) string {
	if ck, err := c.Cookie(AccessCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
