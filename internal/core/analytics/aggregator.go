package analytics

import (
	"sort"
	"time"
)

// Aggregate buckets raw samples by the canonical period start under the given
// granularity and reduces each bucket with the given aggregation kind.
//
// Input order is irrelevant; duplicates are kept within their bucket. The
// output is sorted ascending by period start with at most one point per
// period, each value rounded to 2 decimal places. Identical inputs always
// produce identical output. NaN sample values propagate into their bucket's
// reduction; callers are expected to pre-validate.
func Aggregate(samples []Sample, granularity Granularity, kind AggregationKind) []AggregatedPoint {
	if len(samples) == 0 {
		return []AggregatedPoint{}
	}

	// Group values by canonical period start. Unix nanoseconds make a stable
	// bucket key regardless of the wall-clock representation.
	buckets := make(map[int64][]float64)
	starts := make(map[int64]time.Time)

	for _, s := range samples {
		start := PeriodStart(s.Timestamp, granularity)
		key := start.UnixNano()
		buckets[key] = append(buckets[key], s.Value)
		starts[key] = start
	}

	keys := make([]int64, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	aggregated := make([]AggregatedPoint, 0, len(keys))
	for _, key := range keys {
		aggregated = append(aggregated, AggregatedPoint{
			PeriodStart: starts[key],
			Value:       round2(reduce(buckets[key], kind)),
		})
	}

	return aggregated
}

// PeriodStart truncates t to the start of its period under the given
// granularity. Weeks start on the ISO Monday.
func PeriodStart(t time.Time, granularity Granularity) time.Time {
	switch granularity {
	case GranularityHour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case GranularityDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case GranularityWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return day.AddDate(0, 0, -offset)
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case GranularityYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}

// NextPeriod advances a canonical period start by one unit of the given
// granularity.
func NextPeriod(t time.Time, granularity Granularity) time.Time {
	switch granularity {
	case GranularityHour:
		return t.Add(time.Hour)
	case GranularityDay:
		return t.AddDate(0, 0, 1)
	case GranularityWeek:
		return t.AddDate(0, 0, 7)
	case GranularityMonth:
		return t.AddDate(0, 1, 0)
	case GranularityYear:
		return t.AddDate(1, 0, 0)
	default:
		return t
	}
}

func reduce(values []float64, kind AggregationKind) float64 {
	if len(values) == 0 {
		return 0
	}

	switch kind {
	case AggregationCount:
		return float64(len(values))
	case AggregationMax:
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max
	case AggregationMin:
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	if kind == AggregationAverage {
		return sum / float64(len(values))
	}
	return sum
}
