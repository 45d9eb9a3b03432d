package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/ShilinYang123/PG-PMC-sub001/internal/config"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/core/analytics"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/core/metrics"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/database/repositories"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/websocket"
)

// Handlers contains all HTTP handlers and their dependencies
type Handlers struct {
	cfg       *config.Config
	samples   repositories.SampleRepository
	analytics *analytics.Service
	collector metrics.Collector
	wsHub     *websocket.Hub
	logger    *logrus.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(cfg *config.Config, samples repositories.SampleRepository, analyticsService *analytics.Service, collector metrics.Collector, wsHub *websocket.Hub, logger *logrus.Logger) *Handlers {
	return &Handlers{
		cfg:       cfg,
		samples:   samples,
		analytics: analyticsService,
		collector: collector,
		wsHub:     wsHub,
		logger:    logger,
	}
}
