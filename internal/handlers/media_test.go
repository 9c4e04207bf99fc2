package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsapi/internal/config"
	"github.com/newsdesk/newsapi/internal/logger"
	"github.com/newsdesk/newsapi/internal/media"
	"github.com/newsdesk/newsapi/internal/storage"
)

func newMediaTestEcho(t *testing.T, svc *fakeMedia, maxBytes int64) (*echo.Echo, storage.Layout) {
	t.Helper()
	layout, err := storage.EnsureLayout(t.TempDir())
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Server.MaxUploadBytes = maxBytes
	e := echo.New()
	NewMediaHandler(logger.Discard(), svc, layout, cfg).Register(e)
	return e, layout
}

type part struct {
	field, filename, contentType string
	body                         []byte
}

func multipartBody(t *testing.T, fields map[string]string, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+p.field+`"; filename="`+p.filename+`"`)
		h.Set("Content-Type", p.contentType)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func doRequest(e *echo.Echo, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestUploadSingle(t *testing.T) {
	svc := newFakeMedia()
	e, layout := newMediaTestEcho(t, svc, 1024)

	body, ct := multipartBody(t,
		map[string]string{"alt_text": "Market day", "post_id": "42", "uploadedBy": "editor"},
		part{field: "image", filename: "Market.JPG", contentType: "image/jpeg", body: []byte("jpeg-bytes")},
	)
	rec := doRequest(e, http.MethodPost, "/api/upload/single", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec)
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "Image uploaded successfully", env["message"])

	require.Len(t, svc.uploads, 1)
	in := svc.uploads[0]
	assert.Equal(t, "Market.JPG", in.OriginalName)
	assert.Equal(t, int64(len("jpeg-bytes")), in.OriginalSize)
	assert.Equal(t, "Market day", in.AltText)
	assert.Equal(t, "editor", in.UploadedBy)
	require.NotNil(t, in.OwnerID)
	assert.Equal(t, int64(42), *in.OwnerID)
	assert.True(t, strings.HasPrefix(in.Path, layout.Temp()))
	assert.True(t, strings.HasSuffix(in.Path, ".jpg"))
	assert.Contains(t, in.Path, "img-")
}

func TestUploadSingleRejections(t *testing.T) {
	tests := []struct {
		name   string
		parts  []part
		fields map[string]string
		status int
	}{
		{name: "missing file", status: http.StatusBadRequest},
		{
			name:   "wrong extension",
			parts:  []part{{field: "image", filename: "notes.txt", contentType: "image/png", body: []byte("x")}},
			status: http.StatusBadRequest,
		},
		{
			name:   "wrong content type",
			parts:  []part{{field: "image", filename: "a.png", contentType: "application/pdf", body: []byte("x")}},
			status: http.StatusBadRequest,
		},
		{
			name:   "too large",
			parts:  []part{{field: "image", filename: "a.png", contentType: "image/png", body: bytes.Repeat([]byte("x"), 64)}},
			status: http.StatusRequestEntityTooLarge,
		},
		{
			name:   "bad post id",
			fields: map[string]string{"post_id": "abc"},
			parts:  []part{{field: "image", filename: "a.png", contentType: "image/png", body: []byte("x")}},
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeMedia()
			e, layout := newMediaTestEcho(t, svc, 32)
			body, ct := multipartBody(t, tt.fields, tt.parts...)
			rec := doRequest(e, http.MethodPost, "/api/upload/single", body, ct)
			assert.Equal(t, tt.status, rec.Code)
			assert.Empty(t, svc.uploads)
			entries, err := os.ReadDir(layout.Temp())
			require.NoError(t, err)
			assert.Empty(t, entries, "nothing left in temp")
		})
	}
}

func TestUploadSingleTranscodeFailureCleansTemp(t *testing.T) {
	svc := newFakeMedia()
	svc.ingestErr = &media.TranscodeError{Path: "x", Err: assert.AnError}
	e, layout := newMediaTestEcho(t, svc, 1024)

	body, ct := multipartBody(t, nil, part{field: "image", filename: "a.png", contentType: "image/png", body: []byte("not a png")})
	rec := doRequest(e, http.MethodPost, "/api/upload/single", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	entries, err := os.ReadDir(layout.Temp())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadMultiple(t *testing.T) {
	svc := newFakeMedia()
	e, _ := newMediaTestEcho(t, svc, 1024)

	body, ct := multipartBody(t, nil,
		part{field: "images", filename: "a.png", contentType: "image/png", body: []byte("a")},
		part{field: "images", filename: "b.txt", contentType: "text/plain", body: []byte("b")},
	)
	rec := doRequest(e, http.MethodPost, "/api/upload/multiple", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	assert.Len(t, env["data"], 1)
	assert.Len(t, env["errors"], 1)
	assert.Equal(t, "1 of 2 images uploaded", env["message"])
}

func TestUploadFromURL(t *testing.T) {
	svc := newFakeMedia()
	e, _ := newMediaTestEcho(t, svc, 1024)

	rec := doRequest(e, http.MethodPost, "/api/upload/from-url",
		bytes.NewBufferString(`{"url":" https://cdn.example.org/a.jpg ","alt_text":"A","post_id":7}`), echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, svc.urls, 1)
	assert.Equal(t, "https://cdn.example.org/a.jpg", svc.urls[0].URL)
	assert.Empty(t, svc.urls[0].OriginalName)
	require.NotNil(t, svc.urls[0].OwnerID)
	assert.Equal(t, int64(7), *svc.urls[0].OwnerID)

	rec = doRequest(e, http.MethodPost, "/api/upload/from-url", bytes.NewBufferString(`{}`), echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.ingestErr = &media.FetchError{URL: "https://down.example.org/x.jpg", Err: assert.AnError}
	rec = doRequest(e, http.MethodPost, "/api/upload/from-url",
		bytes.NewBufferString(`{"url":"https://down.example.org/x.jpg"}`), echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUploadFromURLKeepsFilenameAsOriginalNameOnly(t *testing.T) {
	svc := newFakeMedia()
	e, _ := newMediaTestEcho(t, svc, 1024)

	for range 2 {
		rec := doRequest(e, http.MethodPost, "/api/upload/from-url",
			bytes.NewBufferString(`{"url":"https://cdn.example.org/a.jpg","filename":" photo.png "}`), echo.MIMEApplicationJSON)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	require.Len(t, svc.urls, 2)
	for _, in := range svc.urls {
		assert.Equal(t, "photo.png", in.OriginalName)
	}
}

func sampleAsset(id int64) media.Asset {
	return media.Asset{
		ID:                id,
		Filename:          "story.webp",
		ThumbnailFilename: "story_thumb.webp",
		MimeType:          "image/webp",
		Width:             1200,
		Height:            600,
		OriginalWidth:     2000,
		OriginalHeight:    1000,
		ThumbnailSize:     300,
	}
}

func TestListMedia(t *testing.T) {
	svc := newFakeMedia()
	for id := int64(1); id <= 3; id++ {
		svc.assets[id] = sampleAsset(id)
	}
	e, _ := newMediaTestEcho(t, svc, 1024)

	rec := doRequest(e, http.MethodGet, "/api/upload?page=2&limit=2&post_id=9", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, svc.lastFilter.Page)
	require.NotNil(t, svc.lastFilter.OwnerID)
	assert.Equal(t, int64(9), *svc.lastFilter.OwnerID)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, map[string]any{"totalPages": float64(2), "currentPage": float64(2), "totalItems": float64(3)}, env["pagination"])
	data := env["data"].([]any)
	require.Len(t, data, 1)
	first := data[0].(map[string]any)
	assert.Equal(t, "http://media.test/images/story.webp", first["url"])
	assert.Equal(t, "http://media.test/thumbnails/story_thumb.webp", first["thumbnailUrl"])

	rec = doRequest(e, http.MethodGet, "/api/upload?page=x", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUpdateDeleteMedia(t *testing.T) {
	svc := newFakeMedia()
	svc.baseURL = ""
	svc.assets[5] = sampleAsset(5)
	e, _ := newMediaTestEcho(t, svc, 1024)

	rec := doRequest(e, http.MethodGet, "/api/upload/5", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, "http://example.com/images/story.webp", data["url"], "falls back to the request origin")
	details := data["media_details"].(map[string]any)
	assert.Equal(t, float64(2000), details["width"])

	rec = doRequest(e, http.MethodPatch, "/api/upload/5", bytes.NewBufferString(`{"alt_text":"New alt"}`), echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "New alt", svc.assets[5].AltText)

	rec = doRequest(e, http.MethodDelete, "/api/upload/5", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, svc.assets, int64(5))

	rec = doRequest(e, http.MethodGet, "/api/upload/5", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/upload/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAllowedImage(t *testing.T) {
	assert.True(t, allowedImage("a.JPG", "image/jpeg"))
	assert.True(t, allowedImage("a.bmp", "image/bmp"))
	assert.False(t, allowedImage("a.svg", "image/svg+xml"))
	assert.False(t, allowedImage("a.png", ""))
}
