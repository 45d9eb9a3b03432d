package jobs

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ShilinYang123/PG-PMC-sub001/internal/config"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/core/analytics"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/websocket"
)

// TrackedMetric is one dashboard metric recomputed on schedule. Zero-valued
// fields fall back to the configured analytics defaults.
type TrackedMetric struct {
	Name         string `yaml:"name"`
	Category     string `yaml:"category"`
	Granularity  string `yaml:"granularity"`
	Kind         string `yaml:"kind"`
	Periods      int    `yaml:"periods"`
	LookbackDays int    `yaml:"lookback_days"`
}

type metricsFile struct {
	Metrics []TrackedMetric `yaml:"metrics"`
}

// LoadTrackedMetrics reads tracked-metric definitions from a YAML file.
func LoadTrackedMetrics(path string) ([]TrackedMetric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics file: %w", err)
	}

	var parsed metricsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse metrics file: %w", err)
	}

	for i, m := range parsed.Metrics {
		if m.Name == "" {
			return nil, fmt.Errorf("metric %d has no name", i)
		}
		if m.Granularity != "" {
			if _, err := analytics.ParseGranularity(m.Granularity); err != nil {
				return nil, fmt.Errorf("metric %q: %w", m.Name, err)
			}
		}
		if m.Kind != "" {
			if _, err := analytics.ParseAggregationKind(m.Kind); err != nil {
				return nil, fmt.Errorf("metric %q: %w", m.Name, err)
			}
		}
	}

	return parsed.Metrics, nil
}

// Refresher recomputes tracked metrics on a cron schedule and pushes the
// resulting trend reports to connected dashboard clients.
type Refresher struct {
	cfg     config.AnalyticsConfig
	service *analytics.Service
	hub     *websocket.Hub
	logger  *logrus.Logger

	metrics []TrackedMetric
	cron    *cron.Cron
}

// NewRefresher creates a refresher for the given tracked metrics.
func NewRefresher(cfg config.AnalyticsConfig, service *analytics.Service, hub *websocket.Hub, logger *logrus.Logger, metrics []TrackedMetric) *Refresher {
	return &Refresher{
		cfg:     cfg,
		service: service,
		hub:     hub,
		logger:  logger,
		metrics: metrics,
		cron:    cron.New(),
	}
}

// Start schedules the refresh job and runs one refresh immediately so
// clients connecting at startup see current data.
func (r *Refresher) Start() error {
	if _, err := r.cron.AddFunc(r.cfg.Refresh.Schedule, r.RefreshAll); err != nil {
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}

	r.cron.Start()
	r.logger.WithFields(logrus.Fields{
		"schedule": r.cfg.Refresh.Schedule,
		"metrics":  len(r.metrics),
	}).Info("Analytics refresher started")

	go r.RefreshAll()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("Analytics refresher stopped")
}

// RefreshAll recomputes every tracked metric and broadcasts the reports.
func (r *Refresher) RefreshAll() {
	for _, metric := range r.metrics {
		if err := r.refreshMetric(metric); err != nil {
			r.logger.WithError(err).WithField("metric", metric.Name).Error("Failed to refresh metric")
		}
	}
}

func (r *Refresher) refreshMetric(metric TrackedMetric) error {
	// Tracked values are checked by LoadTrackedMetrics and the config
	// defaults by config validation, so raw casts are safe here.
	granularity := analytics.Granularity(metric.Granularity)
	if metric.Granularity == "" {
		granularity = analytics.Granularity(r.cfg.DefaultGranularity)
	}
	kind := analytics.AggregationKind(metric.Kind)
	if metric.Kind == "" {
		kind = analytics.AggregationKind(r.cfg.DefaultAggregation)
	}
	periods := metric.Periods
	if periods < 1 {
		periods = r.cfg.ForecastPeriods
	}
	lookback := metric.LookbackDays
	if lookback < 1 {
		lookback = r.cfg.LookbackDays
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	query := analytics.SampleQuery{
		Metric:   metric.Name,
		Category: metric.Category,
		From:     now.AddDate(0, 0, -lookback),
		To:       now,
	}

	report, err := r.service.MetricTrend(ctx, query, granularity, kind, periods)
	if err != nil {
		return err
	}

	r.hub.BroadcastToMetric(metric.Name, websocket.NewMessage(websocket.MessageTypeAnalyticsUpdate, map[string]interface{}{
		"metric": metric.Name,
		"report": report,
	}))

	r.logger.WithFields(logrus.Fields{
		"metric":  metric.Name,
		"periods": len(report.Series),
	}).Debug("Refreshed tracked metric")

	return nil
}
