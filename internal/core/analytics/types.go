package analytics

import (
	"fmt"
	"math"
	"time"
)

// Sample is a raw timestamped measurement supplied by a caller. Samples are
// never mutated by this package.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Category  string    `json:"category,omitempty"`
	Label     string    `json:"label,omitempty"`
}

// Granularity is the time-bucket width used to group samples into periods.
type Granularity string

const (
	GranularityHour  Granularity = "hour"
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ParseGranularity converts a string (e.g. from a query parameter or config
// file) into a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityHour, GranularityDay, GranularityWeek, GranularityMonth, GranularityYear:
		return Granularity(s), nil
	default:
		return "", fmt.Errorf("unknown granularity: %q", s)
	}
}

// IsValid reports whether g is one of the defined granularities.
func (g Granularity) IsValid() bool {
	_, err := ParseGranularity(string(g))
	return err == nil
}

// AggregationKind is the reduction applied to the values within a bucket.
type AggregationKind string

const (
	AggregationSum     AggregationKind = "sum"
	AggregationAverage AggregationKind = "average"
	AggregationMax     AggregationKind = "max"
	AggregationMin     AggregationKind = "min"
	AggregationCount   AggregationKind = "count"
)

// ParseAggregationKind converts a string into an AggregationKind.
func ParseAggregationKind(s string) (AggregationKind, error) {
	switch AggregationKind(s) {
	case AggregationSum, AggregationAverage, AggregationMax, AggregationMin, AggregationCount:
		return AggregationKind(s), nil
	default:
		return "", fmt.Errorf("unknown aggregation kind: %q", s)
	}
}

// IsValid reports whether k is one of the defined aggregation kinds.
func (k AggregationKind) IsValid() bool {
	_, err := ParseAggregationKind(string(k))
	return err == nil
}

// AggregatedPoint is one reduced bucket: the canonical period start and the
// reduced value, rounded to 2 decimal places.
type AggregatedPoint struct {
	PeriodStart time.Time `json:"period_start"`
	Value       float64   `json:"value"`
}

// ForecastPoint is one projected future period. Value is clamped to >= 0 and
// rounded to 2 decimal places.
type ForecastPoint struct {
	PeriodStart time.Time `json:"period_start"`
	Value       float64   `json:"value"`
}

// TrendSummary holds descriptive statistics over an aggregated series. All
// fields are rounded to 2 decimal places.
type TrendSummary struct {
	Total         float64 `json:"total"`
	Average       float64 `json:"average"`
	Delta         float64 `json:"delta"`
	GrowthPercent float64 `json:"growth_percent"`
}

// round2 rounds to 2 decimal places at the point of computation so output is
// deterministic rather than display-dependent.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
