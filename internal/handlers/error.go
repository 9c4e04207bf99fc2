package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newsdesk/newsapi/internal/categories"
	"github.com/newsdesk/newsapi/internal/media"
	"github.com/newsdesk/newsapi/internal/news"
)

// ErrorResponse is the standard API error body.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// httpError maps service errors onto HTTP errors.
func httpError(err error) error {
	var (
		fetchErr     *media.FetchError
		transcodeErr *media.TranscodeError
		httpErr      *echo.HTTPError
	)
	switch {
	case errors.As(err, &httpErr):
		return err
	case errors.Is(err, media.ErrAssetNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "media not found")
	case errors.Is(err, news.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "news item not found")
	case errors.Is(err, categories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	case errors.Is(err, news.ErrInvalid), errors.Is(err, categories.ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &fetchErr):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error()).SetInternal(err)
	case errors.As(err, &transcodeErr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error()).SetInternal(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "request cancelled").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
}
