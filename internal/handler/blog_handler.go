package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"devblog/internal/service"
)

// BlogHandler serves public blog content.
type BlogHandler struct {
	blogService service.BlogService
}

// NewBlogHandler creates a blog handler.
func NewBlogHandler(blogService service.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// Home godoc
// @Summary Homepage feed
// @Tags blog
// @Produce json
// @Success 200 {object} service.HomePage
// @Failure 500 {object} errors.ErrorResponse
// @Router /home [get]
func (h *BlogHandler) Home(c echo.Context) error {
	page, err := h.blogService.Home(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetPost godoc
// @Summary Get a published post
// @Tags blog
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} service.PublicPost
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *BlogHandler) GetPost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	post, err := h.blogService.GetPublishedPost(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, post)
}
