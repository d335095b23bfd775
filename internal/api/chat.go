package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrinet/nutrition-network/backend/internal/service"
)

// ChatHandler handles AI assistant requests
type ChatHandler struct {
	chat service.IChatService
}

// NewChatHandler creates a new ChatHandler instance
func NewChatHandler(chat service.IChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Chat forwards the user's message to the assistant. The optional
// X-Session-ID header threads a conversation across requests.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing message"})
		return
	}

	if !h.chat.Available() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI assistant is not configured"})
		return
	}

	sessionID := c.GetHeader("X-Session-ID")
	reply, err := h.chat.Reply(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrAIUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI assistant is not configured"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant request failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
