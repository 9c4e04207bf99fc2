// Package server provides the HTTP server and Echo setup for the news API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/newsdesk/newsapi/internal/logger"
	"github.com/newsdesk/newsapi/internal/storage"
)

// Server is the HTTP server (Echo) with static media routes and registered handlers.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *slog.Logger
}

// Handler registers routes on the Echo instance.
type Handler interface {
	Register(e *echo.Echo)
}

// Options configures NewServer.
type Options struct {
	Addr       string
	CORSOrigin string
	// Layout locates the directories served under /images and /thumbnails.
	Layout storage.Layout
}

// NewServer builds the Echo server with recovery, request logging, CORS, static media and the given handlers.
func NewServer(log *slog.Logger, opts Options, handlers ...Handler) *Server {
	if opts.Addr == "" {
		opts.Addr = ":5001"
	}
	origins := splitOrigins(opts.CORSOrigin)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler(log)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestScope(log))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.FromContext(c.Request().Context()).Info("request",
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", c.RealIP()),
			)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowCredentials: len(origins) > 0 && origins[0] != "*",
	}))

	if opts.Layout.Root != "" {
		e.Static("/"+storage.ImagesPrefix, opts.Layout.Images())
		e.Static("/"+storage.ThumbnailsPrefix, opts.Layout.Thumbnails())
	}

	for _, h := range handlers {
		if h != nil {
			h.Register(e)
		}
	}

	return &Server{
		echo:   e,
		addr:   opts.Addr,
		logger: log.With(slog.String("component", "server")),
	}
}

// Start starts the HTTP server (blocks until shutdown).
func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

// Stop gracefully shuts down the server using the given context.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets tests drive the router directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// requestScope stores a logger tagged with the request id and method in the
// request context, for handlers to pick up through logger.Lookup.
func requestScope(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			scoped := log.With(
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.String("method", req.Method),
			)
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), scoped)))
			return next(c)
		}
	}
}

// errorHandler renders every error as {"success": false, "message": ...}.
// Internal causes are logged for 5xx responses only.
func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		message := http.StatusText(status)
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
		}
		reqLog, ok := logger.Lookup(c.Request().Context())
		if !ok {
			reqLog = log
		}
		if status >= http.StatusInternalServerError {
			reqLog.Error("request failed",
				slog.String("uri", c.Request().RequestURI),
				slog.Int("status", status),
				slog.Any("error", err),
			)
		}
		body := map[string]any{"success": false, "message": message}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			reqLog.Warn("write error response failed", slog.Any("error", err))
		}
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
