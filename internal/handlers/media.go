package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/newsdesk/newsapi/internal/config"
	"github.com/newsdesk/newsapi/internal/media"
	"github.com/newsdesk/newsapi/internal/storage"
)

// MediaService is the part of media.Service used by the upload routes.
type MediaService interface {
	IngestUpload(ctx context.Context, in media.UploadInput) (media.Summary, error)
	IngestURL(ctx context.Context, in media.URLInput) (media.Summary, error)
	Get(ctx context.Context, id int64) (media.Asset, error)
	List(ctx context.Context, filter media.ListFilter) ([]media.Asset, int64, error)
	UpdateMetadata(ctx context.Context, id int64, update media.MetadataUpdate) (media.Asset, error)
	Delete(ctx context.Context, id int64) error
	Renditions(asset media.Asset, baseURL string) media.RenditionSet
	BaseURL() string
}

const maxFilesPerUpload = 10

var allowedImageTypes = []string{"jpeg", "jpg", "png", "gif", "webp", "bmp"}

// MediaHandler serves /api/upload.
type MediaHandler struct {
	service        MediaService
	tempDir        string
	maxUploadBytes int64
	logger         *slog.Logger
}

// AssetView is an asset with its public urls.
type AssetView struct {
	media.Asset
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// UploadError reports one rejected file of a multi-file upload.
type UploadError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

type fromURLPayload struct {
	URL        string `json:"url"`
	Filename   string `json:"filename,omitempty"`
	AltText    string `json:"alt_text,omitempty"`
	Caption    string `json:"caption,omitempty"`
	PostID     *int64 `json:"post_id,omitempty"`
	UploadedBy string `json:"uploadedBy,omitempty"`
}

func NewMediaHandler(log *slog.Logger, service MediaService, layout storage.Layout, cfg config.Config) *MediaHandler {
	maxBytes := cfg.Server.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxUploadBytes
	}
	return &MediaHandler{
		service:        service,
		tempDir:        layout.Temp(),
		maxUploadBytes: maxBytes,
		logger:         log.With(slog.String("handler", "media")),
	}
}

func (h *MediaHandler) Register(e *echo.Echo) {
	group := e.Group("/api/upload")
	group.POST("/single", h.UploadSingle)
	group.POST("/multiple", h.UploadMultiple)
	group.POST("/from-url", h.UploadFromURL)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PATCH("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// UploadSingle godoc
// @Summary Upload image
// @Description Ingests the multipart field "image" and returns the stored asset summary
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file (jpeg, png, gif, webp, bmp)"
// @Param alt_text formData string false "Alt text"
// @Param caption formData string false "Caption"
// @Param post_id formData int false "Owning post ID"
// @Param uploaded_by formData string false "Uploader"
// @Success 200 {object} Envelope{data=media.Summary}
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/upload/single [post]
func (h *MediaHandler) UploadSingle(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	}
	in, err := h.uploadInput(c)
	if err != nil {
		return err
	}
	summary, err := h.ingestFile(c, file, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, summary, "Image uploaded successfully")
}

// UploadMultiple godoc
// @Summary Upload images
// @Description Ingests up to ten files from the multipart field "images"
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param images formData file true "Image files"
// @Success 200 {object} map[string]any
// @Failure 400 {object} ErrorResponse
// @Router /api/upload/multiple [post]
func (h *MediaHandler) UploadMultiple(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files uploaded")
	}
	if len(files) > maxFilesPerUpload {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("at most %d files per upload", maxFilesPerUpload))
	}
	in, err := h.uploadInput(c)
	if err != nil {
		return err
	}

	summaries := make([]media.Summary, 0, len(files))
	var rejected []UploadError
	for _, file := range files {
		summary, err := h.ingestFile(c, file, in)
		if err != nil {
			requestLogger(c, h.logger, "media").Warn("upload rejected", slog.String("file", file.Filename), slog.Any("error", err))
			rejected = append(rejected, UploadError{File: file.Filename, Message: errorMessage(err)})
			continue
		}
		summaries = append(summaries, summary)
	}
	if len(summaries) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no file could be processed")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("%d of %d images uploaded", len(summaries), len(files)),
		"data":    summaries,
		"errors":  rejected,
	})
}

// UploadFromURL godoc
// @Summary Upload image from URL
// @Description Downloads a remote image and ingests it
// @Tags media
// @Accept json
// @Produce json
// @Param payload body fromURLPayload true "Source URL and metadata"
// @Success 200 {object} Envelope{data=media.Summary}
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/upload/from-url [post]
func (h *MediaHandler) UploadFromURL(c echo.Context) error {
	var payload fromURLPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	payload.URL = strings.TrimSpace(payload.URL)
	if payload.URL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url is required")
	}
	summary, err := h.service.IngestURL(c.Request().Context(), media.URLInput{
		URL:          payload.URL,
		OriginalName: strings.TrimSpace(payload.Filename),
		AltText:      payload.AltText,
		Caption:      payload.Caption,
		OwnerID:      payload.PostID,
		UploadedBy:   payload.UploadedBy,
	})
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, summary, "Image downloaded successfully")
}

// List godoc
// @Summary List media
// @Description Returns a page of assets, newest first
// @Tags media
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size" default(20)
// @Param post_id query int false "Owning post ID"
// @Success 200 {object} Envelope{data=[]AssetView}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/upload [get]
func (h *MediaHandler) List(c echo.Context) error {
	filter := media.ListFilter{}
	if err := echo.QueryParamsBinder(c).
		Int("page", &filter.Page).
		Int("limit", &filter.Limit).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	owner, err := optionalInt64(c.QueryParam("post_id"), "post_id")
	if err != nil {
		return err
	}
	filter.OwnerID = owner
	filter = filter.Normalize()

	assets, total, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	base := requestBaseURL(c, h.service.BaseURL())
	views := make([]AssetView, 0, len(assets))
	for _, asset := range assets {
		views = append(views, h.view(asset, base))
	}
	totalPages := (total + int64(filter.Limit) - 1) / int64(filter.Limit)
	return respondPage(c, views, filter.Page, total, totalPages)
}

// Get godoc
// @Summary Get media
// @Description Returns one asset with regenerated rendition details
// @Tags media
// @Produce json
// @Param id path int true "Media ID"
// @Success 200 {object} Envelope{data=AssetView}
// @Failure 404 {object} ErrorResponse
// @Router /api/upload/{id} [get]
func (h *MediaHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	asset, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, h.view(asset, requestBaseURL(c, h.service.BaseURL())), "")
}

// Update godoc
// @Summary Update media metadata
// @Description Edits alt text, caption and description
// @Tags media
// @Accept json
// @Produce json
// @Param id path int true "Media ID"
// @Param payload body media.MetadataUpdate true "Metadata"
// @Success 200 {object} Envelope{data=AssetView}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/upload/{id} [patch]
func (h *MediaHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var update media.MetadataUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	asset, err := h.service.UpdateMetadata(c.Request().Context(), id, update)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, h.view(asset, requestBaseURL(c, h.service.BaseURL())), "Media updated successfully")
}

// Delete godoc
// @Summary Delete media
// @Description Removes the asset and its files
// @Tags media
// @Produce json
// @Param id path int true "Media ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/upload/{id} [delete]
func (h *MediaHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, nil, "Media deleted successfully")
}

func (h *MediaHandler) view(asset media.Asset, base string) AssetView {
	asset.Renditions = h.service.Renditions(asset, base)
	return AssetView{
		Asset:        asset,
		URL:          base + "/" + storage.ImagesPrefix + "/" + asset.Filename,
		ThumbnailURL: base + "/" + storage.ThumbnailsPrefix + "/" + asset.ThumbnailFilename,
	}
}

func (h *MediaHandler) uploadInput(c echo.Context) (media.UploadInput, error) {
	owner, err := optionalInt64(c.FormValue("post_id"), "post_id")
	if err != nil {
		return media.UploadInput{}, err
	}
	uploadedBy := c.FormValue("uploadedBy")
	if uploadedBy == "" {
		uploadedBy = c.FormValue("uploaded_by")
	}
	return media.UploadInput{
		AltText:    c.FormValue("alt_text"),
		Caption:    c.FormValue("caption"),
		OwnerID:    owner,
		UploadedBy: uploadedBy,
	}, nil
}

// ingestFile validates the part, spools it into the temp area and runs the pipeline.
func (h *MediaHandler) ingestFile(c echo.Context, file *multipart.FileHeader, in media.UploadInput) (media.Summary, error) {
	if file.Size > h.maxUploadBytes {
		return media.Summary{}, echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds %d bytes", h.maxUploadBytes))
	}
	if !allowedImage(file.Filename, file.Header.Get(echo.HeaderContentType)) {
		return media.Summary{}, echo.NewHTTPError(http.StatusBadRequest,
			"Only image files are allowed (JPEG, PNG, GIF, WEBP, BMP)")
	}
	path, err := h.spool(file)
	if err != nil {
		return media.Summary{}, httpError(err)
	}
	in.Path = path
	in.OriginalName = file.Filename
	in.OriginalSize = file.Size
	summary, err := h.service.IngestUpload(c.Request().Context(), in)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			requestLogger(c, h.logger, "media").Warn("remove upload temp file failed", slog.String("path", path), slog.Any("error", rmErr))
		}
		return media.Summary{}, httpError(err)
	}
	return summary, nil
}

// spool copies the part to temp/img-<ms>-<rand><ext>.
func (h *MediaHandler) spool(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("img-%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], strings.ToLower(filepath.Ext(file.Filename)))
	path := filepath.Join(h.tempDir, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(dst, io.LimitReader(src, h.maxUploadBytes+1)); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

// allowedImage requires both the extension and the declared content type to name an image format.
func allowedImage(filename, contentType string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	contentType = strings.ToLower(contentType)
	extOK, typeOK := false, false
	for _, t := range allowedImageTypes {
		if ext == t {
			extOK = true
		}
		if strings.Contains(contentType, t) {
			typeOK = true
		}
	}
	return extOK && typeOK
}

func errorMessage(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprint(httpErr.Message)
	}
	return err.Error()
}
