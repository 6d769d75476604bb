package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/officedesk/internal/errors"
	"github.com/yukikurage/officedesk/internal/services"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ListMessages returns the task chat and marks it read for the caller.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	messages, err := h.chatService.ListMessages(actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	type PostMessageRequest struct {
		Message  string   `json:"message" binding:"required"`
		Mentions []string `json:"mentions"`
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	msg, err := h.chatService.PostMessage(actor, c.Param("id"), services.PostMessageInput{
		Message:  req.Message,
		Mentions: req.Mentions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) UnreadCount(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	count, err := h.chatService.UnreadCount(actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// ListThreads returns the caller's chat inbox.
func (h *ChatHandler) ListThreads(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	threads, err := h.chatService.Threads(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"threads": threads})
}
