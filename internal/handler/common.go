package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/streamhub-user-service/internal/middleware"
	"github.com/iliyamo/streamhub-user-service/internal/service"
)

// dbTimeout bounds every store call made on behalf of a request.
const dbTimeout = 5 * time.Second

// currentUserID reads the authenticated account id injected by the JWT
// middleware. The second return is false on routes where the middleware
// did not run or the claim was absent.
func currentUserID(c echo.Context) (uint64, bool) {
	v := c.Get(middleware.CtxUserID)
	id, ok := v.(uint64)
	return id, ok && id != 0
}

// writeServiceError maps the service failure taxonomy onto HTTP statuses.
// Infrastructure failures get a generic message so driver details never
// reach the client.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAuth):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUpload):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// formImage converts an optional multipart file header into the service's
// upload type. Returns (nil, nil, nil) when the field is absent.
func formImage(c echo.Context, field string) (*service.ImageUpload, multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &service.ImageUpload{
		Body:        f,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
	}, f, nil
}
