package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"pdfchat/internal/ai"
	appsvc "pdfchat/internal/app"
	"pdfchat/internal/bootstrap"
	"pdfchat/internal/platform/rabbitmq"
	"pdfchat/internal/repository"
	"pdfchat/internal/transport/http/handler"
	"pdfchat/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	chunkRepo := repository.NewChunkRepository(app.MySQL)
	historyRepo := repository.NewHistoryRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
		app.Config.Auth.BcryptCost,
	)

	historyPublisher := rabbitmq.NewHistoryPublisher(app.MQConn, app.Config.RabbitMQ.HistoryPersistQueue)
	ragService := appsvc.NewRAGService(
		chunkRepo,
		historyRepo,
		historyPublisher,
		app.StatusCache,
		ai.NewClient(),
		ai.EmbeddingConfig{
			BaseURL: app.Config.LLM.BaseURL,
			APIKey:  app.Config.LLM.APIKey,
			Model:   app.Config.LLM.EmbeddingModel,
			Dim:     app.Config.LLM.EmbeddingDim,
		},
		ai.ChatConfig{
			BaseURL:     app.Config.LLM.BaseURL,
			APIKey:      app.Config.LLM.APIKey,
			Model:       app.Config.LLM.Model,
			Temperature: app.Config.LLM.Temperature,
		},
	)

	authHandler := handler.NewAuthHandler(authService)
	documentHandler := handler.NewDocumentHandler(ragService)
	chatHandler := handler.NewChatHandler(ragService, app.Config.LLM.APIKey != "")

	router.POST("/signup", authHandler.Signup)
	router.POST("/login", authHandler.Login)
	router.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	// Upload and chat are intentionally not token-gated, matching the
	// observed API surface.
	router.POST("/upload", documentHandler.Upload)
	router.POST("/chat", chatHandler.Chat)
	router.GET("/status", chatHandler.Status)

	return router
}
