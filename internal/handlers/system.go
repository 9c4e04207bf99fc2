package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/newsdesk/newsapi/internal/version"
)

// Pinger reports database reachability; *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves liveness, health and API info routes.
type SystemHandler struct {
	db      Pinger
	started time.Time
	logger  *slog.Logger
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
	Database  string    `json:"database"`
	Version   string    `json:"version"`
}

func NewSystemHandler(log *slog.Logger, db Pinger) *SystemHandler {
	return &SystemHandler{
		db:      db,
		started: time.Now(),
		logger:  log.With(slog.String("handler", "system")),
	}
}

func (h *SystemHandler) Register(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.HEAD("/health", h.PingHead)
	e.GET("/api", h.Info)
	e.GET("/api/health", h.Health)
}

// Ping returns 200 JSON {"status":"ok"}.
func (h *SystemHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// PingHead returns 200 No Content for health checks.
func (h *SystemHandler) PingHead(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// Health godoc
// @Summary Health check
// @Description Reports uptime and database reachability; 503 when the database is unreachable
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/health [get]
func (h *SystemHandler) Health(c echo.Context) error {
	resp := HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.started).Seconds(),
		Database:  "Connected",
		Version:   version.GetInfo(),
	}
	status := http.StatusOK
	if h.db == nil {
		resp.Database = "Unknown"
	} else {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			requestLogger(c, h.logger, "system").Warn("database ping failed", slog.Any("error", err))
			resp.Status = "DEGRADED"
			resp.Database = "Disconnected"
			status = http.StatusServiceUnavailable
		}
	}
	return c.JSON(status, resp)
}

// Info godoc
// @Summary API info
// @Description Lists the public routes
// @Tags system
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api [get]
func (h *SystemHandler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"name":        "News API",
		"version":     version.GetInfo(),
		"description": "News content backend with local image storage",
		"endpoints": map[string]map[string]string{
			"posts": {
				"getAll":     "GET /api/posts",
				"getSingle":  "GET /api/posts/:id",
				"byType":     "GET /api/posts/type/:type",
				"byCategory": "GET /api/posts/category/:categoryId",
				"create":     "POST /api/posts",
				"update":     "PUT /api/posts/:id",
				"delete":     "DELETE /api/posts/:id",
			},
			"videos": {
				"getAll":    "GET /api/igh-yt-videos",
				"getSingle": "GET /api/igh-yt-videos/:id",
			},
			"categories": {
				"getAll":    "GET /api/categories",
				"getSingle": "GET /api/categories/:id",
				"create":    "POST /api/categories",
				"update":    "PUT /api/categories/:id",
				"delete":    "DELETE /api/categories/:id",
			},
			"upload": {
				"single":   "POST /api/upload/single",
				"multiple": "POST /api/upload/multiple",
				"fromUrl":  "POST /api/upload/from-url",
				"getAll":   "GET /api/upload",
				"get":      "GET /api/upload/:id",
				"update":   "PATCH /api/upload/:id",
				"delete":   "DELETE /api/upload/:id",
			},
		},
	})
}
