package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newsdesk/newsapi/internal/categories"
)

// CategoryService is the part of categories.Service used by the category routes.
type CategoryService interface {
	List(ctx context.Context) ([]categories.Category, error)
	Get(ctx context.Context, id int64) (categories.Category, error)
	Create(ctx context.Context, c categories.Category) (categories.Category, error)
	Upsert(ctx context.Context, c categories.Category) (categories.Category, error)
	Delete(ctx context.Context, id int64) error
}

type CategoriesHandler struct {
	service CategoryService
	logger  *slog.Logger
}

func NewCategoriesHandler(log *slog.Logger, service CategoryService) *CategoriesHandler {
	return &CategoriesHandler{
		service: service,
		logger:  log.With(slog.String("handler", "categories")),
	}
}

func (h *CategoriesHandler) Register(e *echo.Echo) {
	group := e.Group("/api/categories")
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.POST("", h.Create)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// List godoc
// @Summary List categories
// @Description Returns every category sorted by name, as a bare array
// @Tags categories
// @Produce json
// @Success 200 {array} categories.Category
// @Failure 500 {object} ErrorResponse
// @Router /api/categories [get]
func (h *CategoriesHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary Get category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} Envelope{data=categories.Category}
// @Failure 404 {object} ErrorResponse
// @Router /api/categories/{id} [get]
func (h *CategoriesHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, item, "")
}

// Create godoc
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param payload body categories.Category true "Category"
// @Success 201 {object} Envelope{data=categories.Category}
// @Failure 400 {object} ErrorResponse
// @Router /api/categories [post]
func (h *CategoriesHandler) Create(c echo.Context) error {
	var item categories.Category
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.service.Create(c.Request().Context(), item)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, created, "Category created successfully")
}

// Update godoc
// @Summary Update category
// @Description Merges the body into the stored category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param payload body categories.Category true "Fields to change"
// @Success 200 {object} Envelope{data=categories.Category}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/categories/{id} [put]
func (h *CategoriesHandler) Update(c echo.Context) error {
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
	return respond(c, http.StatusOK, updated, "Category updated successfully")
}

// Delete godoc
// @Summary Delete category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} ErrorResponse
// @Router /api/categories/{id} [delete]
func (h *CategoriesHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, nil, "Category deleted successfully")
}
