package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/newsdesk/newsapi/internal/logger"
)

// Envelope is the standard success body.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page returned in an Envelope.
type Pagination struct {
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	TotalItems  int64 `json:"totalItems"`
}

func respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

func respondPage(c echo.Context, data any, page int, total, totalPages int64) error {
	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			TotalPages:  totalPages,
			CurrentPage: page,
			TotalItems:  total,
		},
	})
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// parseIDList parses a comma separated list of ids, e.g. "3,7,12".
func parseIDList(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id list: "+raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// optionalInt64 parses an optional numeric form or query value.
func optionalInt64(raw, name string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return &v, nil
}

// requestBaseURL prefers the configured base and falls back to the request origin.
func requestBaseURL(c echo.Context, configured string) string {
	if configured != "" {
		return configured
	}
	return c.Scheme() + "://" + c.Request().Host
}

// requestLogger returns the request-scoped logger installed by the server,
// tagged with the handler name, or base when the request carries none.
func requestLogger(c echo.Context, base *slog.Logger, handler string) *slog.Logger {
	if scoped, ok := logger.Lookup(c.Request().Context()); ok {
		return scoped.With(slog.String("handler", handler))
	}
	return base
}
