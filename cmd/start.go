package cmd

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/docuchat/docuchat-be/config"
	"github.com/docuchat/docuchat-be/handler"
	"github.com/docuchat/docuchat-be/logger"
	"github.com/docuchat/docuchat-be/middleware"
	"github.com/docuchat/docuchat-be/service"
	"github.com/docuchat/docuchat-be/storage"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the document OCR & chat server",
	Long:  `Starts the HTTP server that handles document submissions and chat requests`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		logger.Init(cfg.LogLevel)
		defer logger.Sync()

		// Initialize services
		store, err := storage.NewDocumentStore(cfg.UploadDir)
		if err != nil {
			logger.Fatalf("Failed to initialize document store: %v", err)
		}

		ocrService := service.NewOCRService(cfg.MistralAPIKey)

		var aiService service.AIService
		switch cfg.AIProvider {
		case config.ProviderOpenAI:
			aiService = service.NewOpenAIService(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
		default:
			geminiService, err := service.NewGeminiService(cfg.GoogleAPIKey, cfg.GeminiModel)
			if err != nil {
				logger.Fatalf("Failed to initialize Gemini service: %v", err)
			}
			defer geminiService.Close()
			aiService = geminiService
		}

		documentService := service.NewDocumentService(store, ocrService, aiService, cfg.MaxUploadSize)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		documentHandler := handler.NewDocumentHandler(documentService)
		chatHandler := handler.NewChatHandler(documentService)
		wsChatHandler := handler.NewWsChatHandler(documentService)
		healthHandler := handler.NewHealthHandler()

		// Setup Gin router
		gin.SetMode(gin.ReleaseMode)
		router := gin.New()
		router.Use(middleware.RequestLogger(), gin.Recovery())
		router.Use(corsHandler.CorsMiddleware)

		api := router.Group("/api")
		{
			documents := api.Group("/documents")
			{
				documents.POST("/upload", documentHandler.UploadDocument)
				documents.POST("/process-url", documentHandler.ProcessURL)
				documents.GET("/:documentId", documentHandler.GetDocument)
				documents.GET("/:documentId/history", documentHandler.GetChatHistory)
			}

			chat := api.Group("/chat")
			{
				chat.POST("/:documentId", chatHandler.HandleChat)
				chat.GET("/:documentId/ws", wsChatHandler.HandleChat)
			}
		}
		router.GET("/health", healthHandler.HealthCheck)

		logger.Infof("Starting server on port %s...", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			logger.Fatalf("Server error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
