package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/linkup-app/backend/internal/models"
	"github.com/linkup-app/backend/internal/services"
)

// FriendshipHandler handles HTTP requests related to the friend graph
type FriendshipHandler struct {
	friends *services.FriendService
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friends *services.FriendService) *FriendshipHandler {
	return &FriendshipHandler{friends: friends}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.GET("/friends", h.GetFriends)
	g.GET("/friends/requests/pending", h.GetPendingRequests)
	g.GET("/friends/requests/sent", h.GetSentRequests)
	g.GET("/friends/suggestions", h.GetSuggestions)
	g.POST("/friends/request", h.SendRequest)
	g.PUT("/friends/request/:id/accept", h.AcceptRequest)
	g.PUT("/friends/request/:id/reject", h.RejectRequest)
	g.DELETE("/friends/request/:id", h.CancelRequest)
	g.DELETE("/friends/:id", h.Unfriend)
	g.GET("/users/search", h.SearchUsers)
}

// SendRequest handles sending a friend request
func (h *FriendshipHandler) SendRequest(c echo.Context) error {
	var req models.SendFriendRequestBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	f, err := h.friends.SendRequest(currentUserID(c), req.TargetID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, f)
}

// AcceptRequest accepts a pending friend request addressed to the caller
func (h *FriendshipHandler) AcceptRequest(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	f, err := h.friends.AcceptRequest(id, currentUserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, f)
}

// RejectRequest rejects a pending friend request addressed to the caller
func (h *FriendshipHandler) RejectRequest(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	f, err := h.friends.RejectRequest(id, currentUserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, f)
}

// CancelRequest cancels a pending request the caller sent
func (h *FriendshipHandler) CancelRequest(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.friends.CancelRequest(id, currentUserID(c)); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Unfriend removes a friendship the caller is part of
func (h *FriendshipHandler) Unfriend(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.friends.Unfriend(id, currentUserID(c)); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetFriends lists the caller's accepted friends with mutual counts
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	views, err := h.friends.ListFriends(currentUserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// GetPendingRequests lists incoming pending friend requests
func (h *FriendshipHandler) GetPendingRequests(c echo.Context) error {
	views, err := h.friends.ListPending(currentUserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// GetSentRequests lists outgoing pending friend requests
func (h *FriendshipHandler) GetSentRequests(c echo.Context) error {
	views, err := h.friends.ListSent(currentUserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// GetSuggestions lists friends-of-friends the caller might know
func (h *FriendshipHandler) GetSuggestions(c echo.Context) error {
	results, err := h.friends.Suggestions(currentUserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, results)
}

// SearchUsers searches users by name or email, annotated with
// relationship flags relative to the caller
func (h *FriendshipHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query 'q' is required")
	}

	results, err := h.friends.Search(query, currentUserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, results)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	return uint(id), nil
}
