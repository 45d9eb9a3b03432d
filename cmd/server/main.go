package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ShilinYang123/PG-PMC-sub001/internal/api"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/config"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/core/analytics"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/core/metrics"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/database"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/database/sqlite"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/jobs"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/websocket"
	"github.com/ShilinYang123/PG-PMC-sub001/pkg/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	logger.Configure(log, cfg.Logging.Level, cfg.Logging.Format)

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database.MigrationsPath); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	sampleRepo := sqlite.NewSampleRepository(db)

	collector := metrics.NewPrometheusCollector(&metrics.Config{
		Enabled: cfg.Metrics.Enabled,
		Prefix:  cfg.Metrics.Prefix,
	})

	wsHub := websocket.NewHub(websocket.Config{
		PingInterval: time.Duration(cfg.WebSocket.PingInterval) * time.Second,
		PongTimeout:  time.Duration(cfg.WebSocket.PongTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebSocket.WriteTimeout) * time.Second,
	}, log)
	go wsHub.Run()

	analyticsService := analytics.NewService(sampleRepo, log)

	var refresher *jobs.Refresher
	if cfg.Analytics.Refresh.Enabled {
		tracked, err := jobs.LoadTrackedMetrics(cfg.Analytics.Refresh.MetricsFile)
		if err != nil {
			log.WithError(err).Warn("Failed to load tracked metrics, scheduled refresh disabled")
		} else if len(tracked) > 0 {
			refresher = jobs.NewRefresher(cfg.Analytics, analyticsService, wsHub, log, tracked)
			if err := refresher.Start(); err != nil {
				log.WithError(err).Warn("Failed to start analytics refresher")
				refresher = nil
			}
		}
	}

	router := api.NewRouter(cfg, sampleRepo, analyticsService, collector, log, wsHub)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Starting PMC analytics backend on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if refresher != nil {
		refresher.Stop()
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Info("Server exited")
}
