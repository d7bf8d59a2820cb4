package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/streamhub-user-service/internal/service"
)

// ChannelHandler serves the channel-profile aggregation endpoint.
type ChannelHandler struct {
	Svc *service.UserService
}

func NewChannelHandler(svc *service.UserService) *ChannelHandler {
	return &ChannelHandler{Svc: svc}
}

type channelResp struct {
	ID              uint64 `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	AvatarURL       string `json:"avatar_url"`
	CoverImageURL   string `json:"cover_image_url,omitempty"`
	SubscriberCount uint64 `json:"subscribers_count"`
	SubscribedTo    uint64 `json:"channels_subscribed_to_count"`
	IsSubscribed    bool   `json:"is_subscribed"`
}

// ChannelProfile returns the channel matching the :username path param
// with its subscriber counts and whether the viewer subscribes to it.
func (h *ChannelHandler) ChannelProfile(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Svc.GetChannelProfile(ctx, uid, c.Param("username"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"channel": channelResp{
		ID:              p.ID,
		Username:        p.Username,
		Email:           p.Email,
		FullName:        p.FullName,
		AvatarURL:       p.AvatarURL,
		CoverImageURL:   p.CoverImageURL,
		SubscriberCount: p.SubscriberCount,
		SubscribedTo:    p.SubscribedTo,
		IsSubscribed:    p.IsSubscribed,
	}})
}
