package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsapi/internal/logger"
	"github.com/newsdesk/newsapi/internal/storage"
)

type routeHandler struct{}

func (routeHandler) Register(e *echo.Echo) {
	e.GET("/boom", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nothing here")
	})
	e.GET("/panic", func(echo.Context) error {
		panic("kaboom")
	})
}

func newTestServer(t *testing.T) (*Server, storage.Layout) {
	t.Helper()
	layout, err := storage.EnsureLayout(t.TempDir())
	require.NoError(t, err)
	srv := NewServer(logger.Discard(), Options{Addr: ":0", CORSOrigin: "https://news.example.org", Layout: layout}, routeHandler{}, nil)
	return srv, layout
}

func TestServerServesStaticMedia(t *testing.T) {
	srv, layout := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(layout.Images(), "a.webp"), []byte("primary"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(layout.Thumbnails(), "a_thumb.webp"), []byte("thumb"), 0o644))

	for path, body := range map[string]string{"/images/a.webp": "primary", "/thumbnails/a_thumb.webp": "thumb"} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, body, rec.Body.String())
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/missing.webp", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerErrorBody(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "nothing here", body["message"])

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServerCORS(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(echo.HeaderOrigin, "https://news.example.org")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "https://news.example.org", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins(""))
	assert.Equal(t, []string{"https://a", "https://b"}, splitOrigins(" https://a, ,https://b "))
}

type scopedHandler struct{}

func (scopedHandler) Register(e *echo.Echo) {
	e.GET("/scoped", func(c echo.Context) error {
		l, ok := logger.Lookup(c.Request().Context())
		if !ok {
			return echo.NewHTTPError(http.StatusInternalServerError, "no request logger")
		}
		l.Info("handled")
		return c.NoContent(http.StatusNoContent)
	})
}

func TestServerInstallsRequestScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	srv := NewServer(logger.New(&buf, "info", "json"), Options{Addr: ":0"}, scopedHandler{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scoped", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	requestID := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, requestID)
	var handled map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var record map[string]any
		require.NoError(t, json.Unmarshal(line, &record))
		assert.Equal(t, requestID, record["request_id"], record["msg"])
		if record["msg"] == "handled" {
			handled = record
		}
	}
	require.NotNil(t, handled)
	assert.Equal(t, http.MethodGet, handled["method"])
}
