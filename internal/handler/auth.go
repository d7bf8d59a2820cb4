package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/streamhub-user-service/internal/config"
	"github.com/iliyamo/streamhub-user-service/internal/middleware"
	"github.com/iliyamo/streamhub-user-service/internal/service"
)

// refreshCookieName is where the refresh token travels between refreshes.
const refreshCookieName = "refreshToken"

// AuthHandler bundles dependencies for the session endpoints.
type AuthHandler struct {
	Cfg config.Config
	Svc *service.UserService
}

func NewAuthHandler(cfg config.Config, svc *service.UserService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Svc: svc}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    *service.Account `json:"user"`
	Access  tokenPart        `json:"access"`
	Refresh tokenPart        `json:"refresh"`
}

// Register creates an account from a multipart form carrying the profile
// fields plus an avatar file (required) and a cover image (optional).
// Tokens are not issued here; the client logs in next.
func (h *AuthHandler) Register(c echo.Context) error {
	in := service.RegisterInput{
		FullName: c.FormValue("fullName"),
		Email:    c.FormValue("email"),
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}

	avatar, avatarFile, err := formImage(c, "avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable avatar file"})
	}
	if avatarFile != nil {
		defer avatarFile.Close()
	}
	in.Avatar = avatar

	cover, coverFile, err := formImage(c, "coverImage")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable cover image file"})
	}
	if coverFile != nil {
		defer coverFile.Close()
	}
	in.Cover = cover

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	account, err := h.Svc.Register(ctx, in)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": account})
}

// Login verifies credentials and returns a fresh token pair. Tokens are
// delivered twice: in the JSON body and as HttpOnly cookies, so browser
// and non-browser clients are both served.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	account, pair, err := h.Svc.Login(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}

	h.setAuthCookies(c, pair)
	return c.JSON(http.StatusOK, authResp{
		User:    account,
		Access:  tokenPart{Token: pair.Access.Token, Expires: pair.Access.Exp},
		Refresh: tokenPart{Token: pair.Refresh.Token, Expires: pair.Refresh.Exp},
	})
}

// Logout clears the stored refresh token and expires both auth cookies.
// Requires a valid access token; calling it twice is harmless.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Svc.Logout(ctx, uid); err != nil {
		return writeServiceError(c, err)
	}
	h.clearAuthCookies(c)
	return c.NoContent(http.StatusNoContent)
}

// Refresh exchanges a valid refresh token for a new pair, rotating the
// stored token. The incoming token is read from the refreshToken cookie
// or, failing that, a JSON body.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw := ""
	if ck, err := c.Cookie(refreshCookieName); err == nil {
		raw = ck.Value
	}
	if raw == "" {
		var req refreshReq
		_ = c.Bind(&req)
		raw = strings.TrimSpace(req.RefreshToken)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	account, pair, err := h.Svc.Refresh(ctx, raw)
	if err != nil {
		return writeServiceError(c, err)
	}

	h.setAuthCookies(c, pair)
	return c.JSON(http.StatusOK, authResp{
		User:    account,
		Access:  tokenPart{Token: pair.Access.Token, Expires: pair.Access.Exp},
		Refresh: tokenPart{Token: pair.Refresh.Token, Expires: pair.Refresh.Exp},
	})
}

// ChangePassword swaps the account secret after verifying the old one.
// Standing sessions and the stored refresh token are untouched.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Svc.ChangePassword(ctx, uid, req.OldPassword, req.NewPassword); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// CurrentUser returns the authenticated account without secret fields.
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	account, err := h.Svc.CurrentUser(ctx, uid)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": account})
}

// setAuthCookies delivers both tokens as host-only cookies: HttpOnly so
// scripts cannot read them, Secure per deployment config.
func (h *AuthHandler) setAuthCookies(c echo.Context, pair service.TokenPair) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessCookieName,
		Value:    pair.Access.Token,
		Expires:  pair.Access.Exp,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.Refresh.Token,
		Expires:  pair.Refresh.Exp,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
	for _, name := range []string{middleware.AccessCookieName, refreshCookieName} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.Cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
