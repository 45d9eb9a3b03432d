package analytics

import (
	"fmt"
	"math"
)

// ErrInvalidPeriods is returned by Forecast when the requested period count
// is below 1. It signals a caller bug, not a data condition.
var ErrInvalidPeriods = fmt.Errorf("forecast periods must be >= 1")

// Forecast fits an ordinary least-squares line to the aggregated series and
// projects the requested number of future periods.
//
// The regression runs over the positional index 0..n-1, one unit per point,
// not over elapsed calendar time. Fewer than 2 aggregated points carry no
// trend signal, so the result is empty (and not an error). Projected values
// are clamped to >= 0 and rounded to 2 decimal places; projected timestamps
// advance from the last point's period start by whole granularity units.
func Forecast(aggregated []AggregatedPoint, periods int, granularity Granularity) ([]ForecastPoint, error) {
	if periods < 1 {
		return nil, ErrInvalidPeriods
	}
	if len(aggregated) < 2 {
		return []ForecastPoint{}, nil
	}

	n := float64(len(aggregated))
	var sumX, sumY, sumXY, sumX2 float64
	for i, point := range aggregated {
		x := float64(i)
		y := point.Value

		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	// The denominator cannot be zero for n >= 2 sequential integer indices.
	slope := (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	last := aggregated[len(aggregated)-1].PeriodStart
	forecast := make([]ForecastPoint, 0, periods)
	for i := 1; i <= periods; i++ {
		value := slope*(n+float64(i)-1) + intercept
		value = math.Max(0, value)

		last = NextPeriod(last, granularity)
		forecast = append(forecast, ForecastPoint{
			PeriodStart: last,
			Value:       round2(value),
		})
	}

	return forecast, nil
}
