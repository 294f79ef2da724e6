package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jharkhand-yatra/tourassist/internal/app/domain/assistant"
	"github.com/jharkhand-yatra/tourassist/internal/pkg/config"
)

type AppHandlers struct {
	Chat *assistant.ChatHandlers
}

// Setup wires the assistant pipeline and registers all routes.
func Setup(r *gin.Engine, dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) {
	providers := assistant.NewRegistry(cfg.Assistant, log)
	invoker := assistant.NewInvoker(providers, cfg.Assistant.FanOutTimeout, log)
	repo := assistant.NewPostgresRepository(dbPool)
	service := assistant.NewService(invoker, repo, cfg.Assistant.CacheTTL, log)

	handlers := &AppHandlers{
		Chat: assistant.NewChatHandlers(service, log),
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/chat/message", handlers.Chat.HandleChatMessage)
	}
}
