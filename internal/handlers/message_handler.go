package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/linkup-app/backend/internal/models"
	"github.com/linkup-app/backend/internal/services"
)

// MessageHandler handles HTTP requests related to direct messages
type MessageHandler struct {
	messages *services.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// RegisterMessageRoutes registers messaging-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/messages", h.GetInbox)
	g.GET("/messages/unread", h.GetUnreadCount)
	g.GET("/messages/:friendId", h.OpenConversation)
	g.POST("/messages/:friendId", h.SendMessage)
	g.DELETE("/messages/message/:id", h.DeleteMessage)
}

// GetInbox lists the caller's conversations, newest first
func (h *MessageHandler) GetInbox(c echo.Context) error {
	inbox, err := h.messages.ListConversations(currentUserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, inbox)
}

// GetUnreadCount returns the caller's total unread message count
// (navbar badge)
func (h *MessageHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.messages.UnreadCount(currentUserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// OpenConversation returns the chat with one friend and marks their
// messages as read
func (h *MessageHandler) OpenConversation(c echo.Context) error {
	friendID, err := parseFriendID(c)
	if err != nil {
		return err
	}

	chat, err := h.messages.OpenConversation(currentUserID(c), friendID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, chat)
}

// SendMessage sends a message to a friend
func (h *MessageHandler) SendMessage(c echo.Context) error {
	friendID, err := parseFriendID(c)
	if err != nil {
		return err
	}

	var req models.SendMessageBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := h.messages.Send(currentUserID(c), friendID, req.Content)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

// DeleteMessage deletes a message the caller sent
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.messages.Delete(id, currentUserID(c)); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseFriendID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("friendId"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid friend ID")
	}
	return uint(id), nil
}
