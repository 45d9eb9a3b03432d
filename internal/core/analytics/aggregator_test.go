package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestAggregate_DailySum(t *testing.T) {
	samples := []Sample{
		{Timestamp: at(2024, 1, 1, 8), Value: 10},
		{Timestamp: at(2024, 1, 1, 15), Value: 20},
		{Timestamp: at(2024, 1, 2, 9), Value: 5},
	}

	result := Aggregate(samples, GranularityDay, AggregationSum)

	require.Len(t, result, 2)
	assert.Equal(t, day(2024, 1, 1), result[0].PeriodStart)
	assert.Equal(t, 30.0, result[0].Value)
	assert.Equal(t, day(2024, 1, 2), result[1].PeriodStart)
	assert.Equal(t, 5.0, result[1].Value)
}

func TestAggregate_Kinds(t *testing.T) {
	samples := []Sample{
		{Timestamp: at(2024, 1, 1, 8), Value: 10},
		{Timestamp: at(2024, 1, 1, 15), Value: 20},
		{Timestamp: at(2024, 1, 2, 9), Value: 5},
	}

	tests := []struct {
		name     string
		kind     AggregationKind
		expected []float64
	}{
		{name: "sum", kind: AggregationSum, expected: []float64{30, 5}},
		{name: "average", kind: AggregationAverage, expected: []float64{15, 5}},
		{name: "max", kind: AggregationMax, expected: []float64{20, 5}},
		{name: "min", kind: AggregationMin, expected: []float64{10, 5}},
		{name: "count", kind: AggregationCount, expected: []float64{2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Aggregate(samples, GranularityDay, tt.kind)
			require.Len(t, result, len(tt.expected))
			for i, want := range tt.expected {
				assert.Equal(t, want, result[i].Value)
			}
		})
	}
}

func TestAggregate_Empty(t *testing.T) {
	result := Aggregate(nil, GranularityDay, AggregationSum)
	assert.Empty(t, result)
}

func TestAggregate_RoundsToTwoDecimals(t *testing.T) {
	samples := []Sample{
		{Timestamp: at(2024, 1, 1, 8), Value: 10},
		{Timestamp: at(2024, 1, 1, 9), Value: 20},
		{Timestamp: at(2024, 1, 1, 10), Value: 25},
	}

	result := Aggregate(samples, GranularityDay, AggregationAverage)

	require.Len(t, result, 1)
	assert.Equal(t, 18.33, result[0].Value)
}

func TestAggregate_InputOrderIrrelevant(t *testing.T) {
	samples := make([]Sample, 0, 50)
	for i := 0; i < 50; i++ {
		samples = append(samples, Sample{
			Timestamp: at(2024, 3, 1+i%10, i%24),
			Value:     float64(i),
		})
	}

	expected := Aggregate(samples, GranularityDay, AggregationSum)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]Sample, len(samples))
		copy(shuffled, samples)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		result := Aggregate(shuffled, GranularityDay, AggregationSum)
		assert.Equal(t, expected, result)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	samples := []Sample{
		{Timestamp: at(2024, 1, 1, 8), Value: 1.5},
		{Timestamp: at(2024, 1, 1, 9), Value: 2.5},
		{Timestamp: at(2024, 2, 3, 9), Value: 7},
	}

	first := Aggregate(samples, GranularityMonth, AggregationSum)
	second := Aggregate(samples, GranularityMonth, AggregationSum)

	assert.Equal(t, first, second)
}

func TestAggregate_SumConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := make([]Sample, 0, 200)
	inputSum := 0.0
	for i := 0; i < 200; i++ {
		v := float64(rng.Intn(1000)) / 4 // quarter steps keep rounding exact
		inputSum += v
		samples = append(samples, Sample{
			Timestamp: at(2024, time.Month(1+i%12), 1+i%28, i%24),
			Value:     v,
		})
	}

	outputSum := 0.0
	for _, point := range Aggregate(samples, GranularityMonth, AggregationSum) {
		outputSum += point.Value
	}

	assert.InDelta(t, inputSum, outputSum, 0.01)
}

func TestAggregate_OrderingStrictlyAscending(t *testing.T) {
	samples := []Sample{
		{Timestamp: at(2024, 12, 31, 23), Value: 1},
		{Timestamp: at(2024, 1, 1, 0), Value: 2},
		{Timestamp: at(2024, 6, 15, 12), Value: 3},
		{Timestamp: at(2023, 7, 1, 6), Value: 4},
	}

	result := Aggregate(samples, GranularityDay, AggregationSum)

	require.Len(t, result, 4)
	for i := 1; i < len(result); i++ {
		assert.True(t, result[i-1].PeriodStart.Before(result[i].PeriodStart),
			"period %d should come before period %d", i-1, i)
	}
}

func TestPeriodStart(t *testing.T) {
	// 2024-01-03 15:04:05 is a Wednesday.
	ts := time.Date(2024, 1, 3, 15, 4, 5, 123, time.UTC)

	tests := []struct {
		name        string
		granularity Granularity
		input       time.Time
		expected    time.Time
	}{
		{name: "hour", granularity: GranularityHour, input: ts, expected: at(2024, 1, 3, 15)},
		{name: "day", granularity: GranularityDay, input: ts, expected: day(2024, 1, 3)},
		{name: "week from wednesday", granularity: GranularityWeek, input: ts, expected: day(2024, 1, 1)},
		{name: "week from sunday", granularity: GranularityWeek, input: at(2024, 1, 7, 10), expected: day(2024, 1, 1)},
		{name: "week from monday", granularity: GranularityWeek, input: at(2024, 1, 1, 0), expected: day(2024, 1, 1)},
		{name: "month", granularity: GranularityMonth, input: ts, expected: day(2024, 1, 1)},
		{name: "year", granularity: GranularityYear, input: ts, expected: day(2024, 1, 1)},
		{name: "year from december", granularity: GranularityYear, input: at(2024, 12, 31, 23), expected: day(2024, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PeriodStart(tt.input, tt.granularity))
		})
	}
}

func TestNextPeriod(t *testing.T) {
	tests := []struct {
		name        string
		granularity Granularity
		input       time.Time
		expected    time.Time
	}{
		{name: "hour", granularity: GranularityHour, input: at(2024, 1, 1, 23), expected: at(2024, 1, 2, 0)},
		{name: "day", granularity: GranularityDay, input: day(2024, 2, 28), expected: day(2024, 2, 29)},
		{name: "week", granularity: GranularityWeek, input: day(2024, 1, 1), expected: day(2024, 1, 8)},
		{name: "month", granularity: GranularityMonth, input: day(2024, 12, 1), expected: day(2025, 1, 1)},
		{name: "year", granularity: GranularityYear, input: day(2024, 1, 1), expected: day(2025, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextPeriod(tt.input, tt.granularity))
		})
	}
}

func TestAggregate_DuplicateTimestampsKept(t *testing.T) {
	ts := at(2024, 5, 10, 12)
	samples := []Sample{
		{Timestamp: ts, Value: 3},
		{Timestamp: ts, Value: 3},
		{Timestamp: ts, Value: 4},
	}

	result := Aggregate(samples, GranularityHour, AggregationCount)

	require.Len(t, result, 1)
	assert.Equal(t, 3.0, result[0].Value)
}
