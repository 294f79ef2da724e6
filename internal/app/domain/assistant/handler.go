package assistant

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jharkhand-yatra/tourassist/internal/app/models"
)

// ChatHandlers exposes the assistant pipeline over HTTP.
type ChatHandlers struct {
	service *Service
	logger  *zap.Logger
}

func NewChatHandlers(service *Service, logger *zap.Logger) *ChatHandlers {
	return &ChatHandlers{
		service: service,
		logger:  logger,
	}
}

// HandleChatMessage handles POST /api/v1/chat/message. A fan-out where
// every provider fails still answers 200 with the localized fallback — the
// pipeline has no user-visible error mode beyond that message.
func (h *ChatHandlers) HandleChatMessage(c *gin.Context) {
	var req models.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	resp, err := h.service.Respond(c.Request.Context(), req.Message, req.Language)
	if err != nil {
		if errors.Is(err, models.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Chat turn failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
