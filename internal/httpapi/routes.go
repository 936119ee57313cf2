package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"allmarket/internal/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg config.ServerConfig, handler *Handler, logger logrus.FieldLogger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	// Routes that call the model share one bucket.
	aiLimit := RateLimitMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.POST("/sync", aiLimit, handler.SyncProducts)
			products.GET("/:id/share", handler.ShareProduct)
		}

		v1.POST("/leads", handler.SubmitLead)
		v1.POST("/analysis", aiLimit, handler.AnalyzeNiche)

		admin := v1.Group("/admin")
		{
			admin.GET("/leads", handler.ListLeads)
			admin.GET("/leads/export", handler.ExportLeads)
			admin.GET("/settings", handler.GetSettings)
			admin.PUT("/settings", handler.UpdateSettings)
			admin.PUT("/products/:id/link", handler.SetProductLink)
		}
	}

	return router
}
