package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsapi/internal/categories"
	"github.com/newsdesk/newsapi/internal/logger"
)

func TestCategoriesRoutes(t *testing.T) {
	svc := &fakeCategories{items: map[int64]categories.Category{
		1: {ID: 1, Name: "Sports", Slug: "sports"},
		2: {ID: 2, Name: "Health", Slug: "health"},
	}}
	e := echo.New()
	NewCategoriesHandler(logger.Discard(), svc).Register(e)

	rec := doRequest(e, http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []categories.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Health", list[0].Name)

	rec = doRequest(e, http.MethodGet, "/api/categories/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sports", decodeEnvelope(t, rec)["data"].(map[string]any)["name"])
	assert.Equal(t, http.StatusNotFound, doRequest(e, http.MethodGet, "/api/categories/9", nil, "").Code)

	rec = doRequest(e, http.MethodPost, "/api/categories", bytes.NewBufferString(`{"name":"Arts & Culture"}`), echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "arts-culture", svc.items[3].Slug)

	rec = doRequest(e, http.MethodPost, "/api/categories", bytes.NewBufferString(`{"slug":"nameless"}`), echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodPut, "/api/categories/1", bytes.NewBufferString(`{"count":12}`), echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(12), svc.items[1].Count)
	assert.Equal(t, "Sports", svc.items[1].Name)

	assert.Equal(t, http.StatusOK, doRequest(e, http.MethodDelete, "/api/categories/2", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(e, http.MethodDelete, "/api/categories/2", nil, "").Code)
}
