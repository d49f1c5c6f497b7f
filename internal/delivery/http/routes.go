package http

import (
	"github.com/gin-gonic/gin"
	"github.com/msmeconnect/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoints
	router.GET("/", handler.Root)
	router.GET("/health", handler.HealthCheck)

	deps := handler.deps

	// API v1 routes
	v1 := router.Group("/api/v1", RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		voice := v1.Group("/voice", requireService(deps.Voice != nil, "voice"))
		{
			voice.POST("/transcribe", handler.TranscribeAudio)
			voice.POST("/extract-entities", handler.ExtractEntities)
			voice.POST("/text-to-speech", handler.TextToSpeech)
		}

		categorize := v1.Group("/categorize", requireService(deps.Categorization != nil, "categorization"))
		{
			categorize.POST("/product", handler.CategorizeProduct)
			categorize.POST("/bulk", handler.CategorizeBulk)
			categorize.GET("/taxonomy", handler.GetTaxonomy)
		}

		match := v1.Group("/match", requireService(deps.Matching != nil, "matching"))
		{
			match.POST("/recommend-snps", handler.RecommendSNPs)
			match.GET("/snp/:snp_id", handler.GetSNPDetails)
			match.POST("/feedback", handler.SubmitFeedback)
		}

		applications := v1.Group("/applications", requireService(deps.Applications != nil, "applications"))
		{
			applications.POST("/create", handler.CreateApplication)
			applications.GET("", handler.ListApplications)
			applications.GET("/:app_id", handler.GetApplication)
			applications.PUT("/:app_id/verify", handler.VerifyApplication)
		}

		documents := v1.Group("/documents", requireService(deps.Documents != nil, "documents"))
		{
			documents.POST("/upload", handler.UploadDocument)
			documents.POST("/validate", handler.ValidateDocument)
		}

		analytics := v1.Group("/analytics", requireService(deps.Analytics != nil, "analytics"))
		{
			analytics.GET("/dashboard", handler.DashboardMetrics)
			analytics.GET("/performance", handler.ModelPerformance)
		}

		v1.GET("/config/languages", handler.SupportedLanguages)
	}

	return router
}
