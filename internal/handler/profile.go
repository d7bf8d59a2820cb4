package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/streamhub-user-service/internal/service"
)

// ProfileHandler serves the authenticated profile endpoints: account
// details, avatar/cover replacement and watch history.
type ProfileHandler struct {
	Svc *service.UserService
}

func NewProfileHandler(svc *service.UserService) *ProfileHandler {
	return &ProfileHandler{Svc: svc}
}

type updateAccountReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// UpdateAccount replaces the display name and contact address.
func (h *ProfileHandler) UpdateAccount(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	account, err := h.Svc.UpdateAccount(ctx, uid, req.FullName, req.Email)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": account})
}

// UpdateAvatar uploads a new avatar image and stores its reference.
func (h *ProfileHandler) UpdateAvatar(c echo.Context) error {
	return h.updateImage(c, "avatar", h.Svc.UpdateAvatar)
}

// UpdateCoverImage uploads a new cover image and stores its reference.
func (h *ProfileHandler) UpdateCoverImage(c echo.Context) error {
	return h.updateImage(c, "coverImage", h.Svc.UpdateCoverImage)
}

func (h *ProfileHandler) updateImage(c echo.Context, field string,
	update func(context.Context, uint64, *service.ImageUpload) (*service.Account, error)) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	img, f, err := formImage(c, field)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable " + field + " file"})
	}
	if f != nil {
		defer f.Close()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	account, err := update(ctx, uid, img)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": account})
}

// WatchHistory lists the account's watched-video references, most
// recent first.
func (h *ProfileHandler) WatchHistory(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	entries, err := h.Svc.WatchHistory(ctx, uid)
	if err != nil {
		return writeServiceError(c, err)
	}
	type entryPart struct {
		VideoRef  string `json:"video_ref"`
		WatchedAt string `json:"watched_at"`
	}
	out := make([]entryPart, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryPart{VideoRef: e.VideoRef, WatchedAt: e.WatchedAt.UTC().Format(time.RFC3339)})
	}
	return c.JSON(http.StatusOK, echo.Map{"history": out})
}
