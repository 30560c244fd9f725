package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/service"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message any `json:"message"`
}

type ChatHandler struct {
	chat service.IChatService
	log  *logger.Logger
}

func NewChatHandler(chat service.IChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, log: log.WithComponent("api.chat")}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/chat", h.Chat)
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	message, ok := req.Message.(string)
	if !ok || message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reply, err := h.chat.Reply(c.Request.Context(), message)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
