package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/ShilinYang123/PG-PMC-sub001/internal/api/handlers"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/api/middleware"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/config"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/core/analytics"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/core/metrics"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/database/repositories"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/websocket"
)

// NewRouter creates and configures the main HTTP router
func NewRouter(cfg *config.Config, samples repositories.SampleRepository, analyticsService *analytics.Service, collector metrics.Collector, logger *logrus.Logger, wsHub *websocket.Hub) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.ErrorHandlingMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORSMiddleware())
	if cfg.Metrics.Enabled {
		router.Use(middleware.MetricsMiddleware(collector))
	}

	h := handlers.NewHandlers(cfg, samples, analyticsService, collector, wsHub, logger)

	router.GET("/health", h.Health)
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.GET("/ws", middleware.WebSocketMetricsMiddleware(collector), h.WebSocketHandler(wsHub))

	api := router.Group("/api/v1")
	{
		samplesGroup := api.Group("/samples")
		{
			samplesGroup.POST("", h.IngestSamples)
			samplesGroup.GET("", h.GetSamples)
			samplesGroup.GET("/metrics", h.ListMetrics)
		}

		analyticsGroup := api.Group("/analytics")
		{
			analyticsGroup.POST("/aggregate", h.AggregateSamples)
			analyticsGroup.POST("/forecast", h.ForecastSeries)
			analyticsGroup.POST("/summary", h.SummarizeSeries)
			analyticsGroup.GET("/series", h.GetMetricSeries)
			analyticsGroup.GET("/trend", h.GetMetricTrend)
		}

		wsGroup := api.Group("/websocket")
		{
			wsGroup.GET("/stats", h.GetWebSocketStats(wsHub))
		}
	}

	return router
}
