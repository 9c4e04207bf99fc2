package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/newsdesk/newsapi/internal/media"
	"github.com/newsdesk/newsapi/internal/news"
	"github.com/newsdesk/newsapi/internal/storage"
)

// NewsService is the part of news.Service used by the content routes.
type NewsService interface {
	Get(ctx context.Context, id int64) (news.Item, error)
	GetTyped(ctx context.Context, id int64, itemType string) (news.Item, error)
	List(ctx context.Context, q news.ListQuery) ([]news.Item, int64, error)
	Create(ctx context.Context, item news.Item) (news.Item, error)
	Upsert(ctx context.Context, item news.Item) (news.Item, error)
	Delete(ctx context.Context, id int64) error
}

// MediaLookup resolves featured media for content responses.
type MediaLookup interface {
	Lookup(ctx context.Context, ids []int64) (map[int64]media.Asset, error)
	Renditions(asset media.Asset, baseURL string) media.RenditionSet
	BaseURL() string
}

// NewsHandler serves /api/posts and /api/igh-yt-videos.
type NewsHandler struct {
	service NewsService
	media   MediaLookup
	logger  *slog.Logger
}

// ItemView is a content item with its local featured media resolved.
type ItemView struct {
	news.Item
	FeaturedMediaURL     string              `json:"featured_media_url,omitempty"`
	ThumbnailURL         string              `json:"thumbnail_url,omitempty"`
	FeaturedMediaData    *media.Asset        `json:"featured_media_data,omitempty"`
	FeaturedMediaDetails *media.RenditionSet `json:"featured_media_details,omitempty"`
}

func NewNewsHandler(log *slog.Logger, service NewsService, mediaLookup MediaLookup) *NewsHandler {
	return &NewsHandler{
		service: service,
		media:   mediaLookup,
		logger:  log.With(slog.String("handler", "news")),
	}
}

func (h *NewsHandler) Register(e *echo.Echo) {
	posts := e.Group("/api/posts")
	posts.GET("", h.List)
	posts.GET("/type/:type", h.ListByType)
	posts.GET("/category/:categoryId", h.ListByCategory)
	posts.GET("/:id", h.Get)
	posts.POST("", h.Create)
	posts.PUT("/:id", h.Update)
	posts.DELETE("/:id", h.Delete)

	videos := e.Group("/api/igh-yt-videos")
	videos.GET("", h.ListVideos)
	videos.GET("/:id", h.GetVideo)
}

// List godoc
// @Summary List posts
// @Description Returns a bare array of items, WordPress style, with totals in the X-WP-Total and X-WP-TotalPages headers
// @Tags posts
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param per_page query int false "Page size"
// @Param categories query string false "Comma separated category IDs"
// @Param search query string false "Search term"
// @Param type query string false "Item type"
// @Param featured query bool false "Sticky items only"
// @Param author query int false "Author ID"
// @Param sortOrder query string false "asc or desc by date"
// @Success 200 {array} ItemView
// @Header 200 {integer} X-WP-Total "Total items"
// @Header 200 {integer} X-WP-TotalPages "Total pages"
// @Failure 400 {object} ErrorResponse
// @Router /api/posts [get]
func (h *NewsHandler) List(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	q.Type = strings.TrimSpace(c.QueryParam("type"))
	return h.listArray(c, q)
}

// ListVideos godoc
// @Summary List videos
// @Description Video items only, as a bare array with X-WP-Total and X-WP-TotalPages headers
// @Tags videos
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param per_page query int false "Page size"
// @Success 200 {array} ItemView
// @Failure 400 {object} ErrorResponse
// @Router /api/igh-yt-videos [get]
func (h *NewsHandler) ListVideos(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	q.Type = news.TypeVideo
	return h.listArray(c, q)
}

// ListByType godoc
// @Summary List posts by type
// @Description Returns an enveloped page of items of one type
// @Tags posts
// @Produce json
// @Param type path string true "Item type"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} Envelope{data=[]ItemView}
// @Failure 400 {object} ErrorResponse
// @Router /api/posts/type/{type} [get]
func (h *NewsHandler) ListByType(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	q.Type = c.Param("type")
	return h.listPage(c, q)
}

// ListByCategory godoc
// @Summary List posts by category
// @Description Returns an enveloped page of items in one category
// @Tags posts
// @Produce json
// @Param categoryId path int true "Category ID"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} Envelope{data=[]ItemView}
// @Failure 400 {object} ErrorResponse
// @Router /api/posts/category/{categoryId} [get]
func (h *NewsHandler) ListByCategory(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	category, err := pathID(c, "categoryId")
	if err != nil {
		return err
	}
	q.Categories = []int64{category}
	return h.listPage(c, q)
}

// Get godoc
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} Envelope{data=ItemView}
// @Failure 404 {object} ErrorResponse
// @Router /api/posts/{id} [get]
func (h *NewsHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	views, err := h.populate(c, []news.Item{item})
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, views[0], "")
}

// GetVideo godoc
// @Summary Get video
// @Tags videos
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} Envelope{data=ItemView}
// @Failure 404 {object} ErrorResponse
// @Router /api/igh-yt-videos/{id} [get]
func (h *NewsHandler) GetVideo(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.service.GetTyped(c.Request().Context(), id, news.TypeVideo)
	if err != nil {
		return httpError(err)
	}
	views, err := h.populate(c, []news.Item{item})
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, views[0], "")
}

// Create godoc
// @Summary Create post
// @Description Stores a new item; the id is assigned when omitted
// @Tags posts
// @Accept json
// @Produce json
// @Param payload body news.Item true "News item"
// @Success 201 {object} Envelope{data=news.Item}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/posts [post]
func (h *NewsHandler) Create(c echo.Context) error {
	var item news.Item
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if item.Type == "" {
		item.Type = news.TypePost
	}
	if item.Date.IsZero() {
		item.Date = time.Now().UTC()
	}
	created, err := h.service.Create(c.Request().Context(), item)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, created, "News item created successfully")
}

// Update godoc
// @Summary Update post
// @Description Merges the body into the stored item. The featured media link is managed by the ingestion pipeline and is not changed here
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param payload body news.Item true "Fields to change"
// @Success 200 {object} Envelope{data=news.Item}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/posts/{id} [put]
func (h *NewsHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	item, err := h.service.Get(ctx, id)
	if err != nil {
		return httpError(err)
	}
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item.ID = id
	updated, err := h.service.Upsert(ctx, item)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, updated, "News item updated successfully")
}

// Delete godoc
// @Summary Delete post
// @Tags posts
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} ErrorResponse
// @Router /api/posts/{id} [delete]
func (h *NewsHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, nil, "News item deleted successfully")
}

func (h *NewsHandler) listArray(c echo.Context, q news.ListQuery) error {
	items, total, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return httpError(err)
	}
	views, err := h.populate(c, items)
	if err != nil {
		return httpError(err)
	}
	q = q.Normalize()
	c.Response().Header().Set("X-WP-Total", strconv.FormatInt(total, 10))
	c.Response().Header().Set("X-WP-TotalPages", strconv.FormatInt(news.TotalPages(total, q.Limit), 10))
	return c.JSON(http.StatusOK, views)
}

func (h *NewsHandler) listPage(c echo.Context, q news.ListQuery) error {
	items, total, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return httpError(err)
	}
	views, err := h.populate(c, items)
	if err != nil {
		return httpError(err)
	}
	q = q.Normalize()
	return respondPage(c, views, q.Page, total, news.TotalPages(total, q.Limit))
}

// populate attaches featured media urls and renditions in one lookup.
func (h *NewsHandler) populate(c echo.Context, items []news.Item) ([]ItemView, error) {
	views := make([]ItemView, len(items))
	ids := make([]int64, 0, len(items))
	for i, item := range items {
		views[i] = ItemView{Item: item}
		if item.LocalFeaturedMedia != nil {
			ids = append(ids, *item.LocalFeaturedMedia)
		}
	}
	if len(ids) == 0 || h.media == nil {
		return views, nil
	}
	assets, err := h.media.Lookup(c.Request().Context(), ids)
	if err != nil {
		return nil, err
	}
	base := requestBaseURL(c, h.media.BaseURL())
	for i := range views {
		ref := views[i].LocalFeaturedMedia
		if ref == nil {
			continue
		}
		asset, ok := assets[*ref]
		if !ok {
			continue
		}
		details := h.media.Renditions(asset, base)
		asset.Renditions = details
		views[i].FeaturedMediaData = &asset
		views[i].FeaturedMediaDetails = &details
		views[i].FeaturedMediaURL = base + "/" + storage.ImagesPrefix + "/" + asset.Filename
		views[i].ThumbnailURL = base + "/" + storage.ThumbnailsPrefix + "/" + asset.ThumbnailFilename
	}
	return views, nil
}

func pageQuery(c echo.Context) (news.ListQuery, error) {
	var q news.ListQuery
	if err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("per_page", &q.Limit).
		Int("limit", &q.Limit).
		BindError(); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return q, nil
}

func listQuery(c echo.Context) (news.ListQuery, error) {
	q, err := pageQuery(c)
	if err != nil {
		return q, err
	}
	if q.Categories, err = parseIDList(c.QueryParam("categories")); err != nil {
		return q, err
	}
	if q.Author, err = optionalInt64(c.QueryParam("author"), "author"); err != nil {
		return q, err
	}
	if raw := strings.TrimSpace(c.QueryParam("featured")); raw != "" {
		featured := raw == "true"
		q.Sticky = &featured
	}
	q.Search = c.QueryParam("search")
	q.Ascending = strings.EqualFold(c.QueryParam("sortOrder"), "asc") || strings.EqualFold(c.QueryParam("order"), "asc")
	return q, nil
}
