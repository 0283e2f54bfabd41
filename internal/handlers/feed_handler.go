package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/linkup-app/backend/internal/models"
	"github.com/linkup-app/backend/internal/services"
)

// FeedHandler handles HTTP requests related to posts, likes and comments
type FeedHandler struct {
	feed *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.POST("/posts", h.CreatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/like", h.ToggleLike)
	g.POST("/posts/:id/comments", h.AddComment)
}

// GetFeed returns all posts newest first, annotated for the caller
func (h *FeedHandler) GetFeed(c echo.Context) error {
	feed, err := h.feed.Feed(currentUserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, feed)
}

// CreatePost creates a new post
func (h *FeedHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.feed.CreatePost(currentUserID(c), req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

// DeletePost deletes a post the caller authored
func (h *FeedHandler) DeletePost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.feed.DeletePost(id, currentUserID(c)); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleLike likes or unlikes a post
func (h *FeedHandler) ToggleLike(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	liked, err := h.feed.ToggleLike(currentUserID(c), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

// AddComment adds a comment to a post
func (h *FeedHandler) AddComment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req models.AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.feed.AddComment(currentUserID(c), id, req.Content)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}
