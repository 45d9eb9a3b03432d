package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// SampleQuery selects stored samples for one metric within a half-open time
// range. Category narrows the selection when non-empty.
type SampleQuery struct {
	Metric   string    `json:"metric"`
	Category string    `json:"category,omitempty"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
}

// SampleSource supplies raw samples already filtered to a date range. The
// database layer implements it; the core itself owns no persistence.
type SampleSource interface {
	Samples(ctx context.Context, query SampleQuery) ([]Sample, error)
}

// TrendReport bundles the three core outputs for one stored metric, in the
// shape dashboard panels consume.
type TrendReport struct {
	Metric      string            `json:"metric"`
	Granularity Granularity       `json:"granularity"`
	Kind        AggregationKind   `json:"kind"`
	Series      []AggregatedPoint `json:"series"`
	Forecast    []ForecastPoint   `json:"forecast"`
	Summary     TrendSummary      `json:"summary"`
	ComputedAt  time.Time         `json:"computed_at"`
}

// Service composes the aggregation, forecasting and summarization functions
// over a sample source. The functions themselves are pure; the Service only
// adds sample loading and logging, so concurrent use needs no coordination.
type Service struct {
	samples SampleSource
	logger  *logrus.Logger
}

// NewService creates a new analytics service.
func NewService(samples SampleSource, logger *logrus.Logger) *Service {
	return &Service{
		samples: samples,
		logger:  logger,
	}
}

// MetricSeries loads the samples selected by query and aggregates them.
func (s *Service) MetricSeries(ctx context.Context, query SampleQuery, granularity Granularity, kind AggregationKind) ([]AggregatedPoint, error) {
	raw, err := s.samples.Samples(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples for %s: %w", query.Metric, err)
	}

	series := Aggregate(raw, granularity, kind)

	s.logger.WithFields(logrus.Fields{
		"metric":      query.Metric,
		"granularity": granularity,
		"kind":        kind,
		"samples":     len(raw),
		"periods":     len(series),
	}).Debug("Aggregated metric series")

	return series, nil
}

// MetricTrend loads and aggregates the samples selected by query, then
// attaches the forecast and summary for the resulting series.
func (s *Service) MetricTrend(ctx context.Context, query SampleQuery, granularity Granularity, kind AggregationKind, periods int) (*TrendReport, error) {
	series, err := s.MetricSeries(ctx, query, granularity, kind)
	if err != nil {
		return nil, err
	}

	forecast, err := Forecast(series, periods, granularity)
	if err != nil {
		return nil, err
	}

	return &TrendReport{
		Metric:      query.Metric,
		Granularity: granularity,
		Kind:        kind,
		Series:      series,
		Forecast:    forecast,
		Summary:     Summarize(series),
		ComputedAt:  time.Now().UTC(),
	}, nil
}
