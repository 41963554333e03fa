package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"devblog/internal/model"
	"devblog/internal/service"
)

// DashboardHandler serves the staff dashboard: overview, categories, posts and media.
type DashboardHandler struct {
	dashboard  service.DashboardService
	categories service.CategoryService
	posts      service.PostService
	media      service.MediaService
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(
	dashboard service.DashboardService,
	categories service.CategoryService,
	posts service.PostService,
	media service.MediaService,
) *DashboardHandler {
	return &DashboardHandler{
		dashboard:  dashboard,
		categories: categories,
		posts:      posts,
		media:      media,
	}
}

// CategoryRequest is the category form.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// PostRequest is the post form.
type PostRequest struct {
	Title            string           `json:"title" validate:"required,max=100"`
	CategoryID       uint             `json:"category_id" validate:"required"`
	FeaturedImage    string           `json:"featured_image" validate:"max=255"`
	ShortDescription string           `json:"short_description" validate:"max=500"`
	Body             string           `json:"body"`
	Status           model.PostStatus `json:"status"`
	IsFeatured       bool             `json:"is_featured"`
}

func (r PostRequest) input() service.PostInput {
	return service.PostInput{
		Title:            r.Title,
		CategoryID:       r.CategoryID,
		FeaturedImage:    r.FeaturedImage,
		ShortDescription: r.ShortDescription,
		Body:             r.Body,
		Status:           r.Status,
		IsFeatured:       r.IsFeatured,
	}
}

// PresignRequest names the file about to be uploaded.
type PresignRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
}

// Overview godoc
// @Summary Dashboard counts
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Overview
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c echo.Context) error {
	overview, err := h.dashboard.Overview(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, overview)
}

// ListCategories godoc
// @Summary List categories
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Category
// @Router /dashboard/categories [get]
func (h *DashboardHandler) ListCategories(c echo.Context) error {
	categories, err := h.categories.ListCategories(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

// CreateCategory godoc
// @Summary Create category
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "Category"
// @Success 201 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /dashboard/categories [post]
func (h *DashboardHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.categories.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Rename category
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body CategoryRequest true "Category"
// @Success 200 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /dashboard/categories/{id} [put]
func (h *DashboardHandler) UpdateCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.categories.UpdateCategory(c.Request().Context(), id, req.Name)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete category
// @Tags dashboard
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /dashboard/categories/{id} [delete]
func (h *DashboardHandler) DeleteCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.categories.DeleteCategory(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPosts godoc
// @Summary List posts of every status
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Post
// @Router /dashboard/posts [get]
func (h *DashboardHandler) ListPosts(c echo.Context) error {
	posts, err := h.posts.ListPosts(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get post
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Router /dashboard/posts/{id} [get]
func (h *DashboardHandler) GetPost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	post, err := h.posts.GetPost(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// CreatePost godoc
// @Summary Create post authored by the caller
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PostRequest true "Post"
// @Success 201 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Router /dashboard/posts [post]
func (h *DashboardHandler) CreatePost(c echo.Context) error {
	claims, ok := CurrentClaims(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	var req PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.posts.CreatePost(c.Request().Context(), claims.UserID, req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// UpdatePost godoc
// @Summary Update post
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body PostRequest true "Post"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /dashboard/posts/{id} [put]
func (h *DashboardHandler) UpdatePost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.posts.UpdatePost(c.Request().Context(), id, req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete post
// @Tags dashboard
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /dashboard/posts/{id} [delete]
func (h *DashboardHandler) DeletePost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.posts.DeletePost(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PresignUpload godoc
// @Summary Presigned upload URL for a featured image
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PresignRequest true "File name"
// @Success 200 {object} storage.Upload
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /dashboard/media/presign [post]
func (h *DashboardHandler) PresignUpload(c echo.Context) error {
	var req PresignRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	upload, err := h.media.PresignUpload(c.Request().Context(), req.Filename)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, upload)
}
