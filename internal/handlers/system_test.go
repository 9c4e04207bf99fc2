package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsapi/internal/logger"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestSystemRoutes(t *testing.T) {
	e := echo.New()
	NewSystemHandler(logger.Discard(), pingerFunc(func(context.Context) error { return nil })).Register(e)

	rec := doRequest(e, http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, doRequest(e, http.MethodHead, "/health", nil, "").Code)

	rec = doRequest(e, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "OK", health.Status)
	assert.Equal(t, "Connected", health.Database)

	rec = doRequest(e, http.MethodGet, "/api", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/upload/single")
}

func TestHealthReportsDatabaseDown(t *testing.T) {
	e := echo.New()
	NewSystemHandler(logger.Discard(), pingerFunc(func(context.Context) error { return errors.New("refused") })).Register(e)

	rec := doRequest(e, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "DEGRADED", health.Status)
	assert.Equal(t, "Disconnected", health.Database)
}

func TestHealthWarningUsesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	scoped := logger.New(&buf, "info", "json").With("request_id", "req-1")
	e := echo.New()
	NewSystemHandler(logger.Discard(), pingerFunc(func(context.Context) error { return errors.New("refused") })).Register(e)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req = req.WithContext(logger.WithContext(req.Context(), scoped))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "database ping failed", record["msg"])
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "system", record["handler"])
}
