package analytics

// Summarize computes descriptive statistics over an aggregated series: the
// total, the per-period average, the first-to-last delta, and the relative
// growth percentage.
//
// An empty series yields the zero summary. When the first value is 0 the
// growth percentage is defined as 0 regardless of later values; that is
// documented policy, not an error.
func Summarize(aggregated []AggregatedPoint) TrendSummary {
	if len(aggregated) == 0 {
		return TrendSummary{}
	}

	total := 0.0
	for _, point := range aggregated {
		total += point.Value
	}

	first := aggregated[0].Value
	last := aggregated[len(aggregated)-1].Value

	growth := 0.0
	if first != 0 {
		growth = (last - first) / first * 100
	}

	return TrendSummary{
		Total:         round2(total),
		Average:       round2(total / float64(len(aggregated))),
		Delta:         round2(last - first),
		GrowthPercent: round2(growth),
	}
}
