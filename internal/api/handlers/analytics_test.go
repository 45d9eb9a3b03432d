package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShilinYang123/PG-PMC-sub001/internal/api/middleware"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/config"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/core/analytics"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/database/models"
)

type stubSampleRepo struct {
	samples []analytics.Sample
}

func (s *stubSampleRepo) Samples(_ context.Context, _ analytics.SampleQuery) ([]analytics.Sample, error) {
	return s.samples, nil
}

func (s *stubSampleRepo) InsertBatch(_ context.Context, _ string, batch []analytics.Sample) error {
	s.samples = append(s.samples, batch...)
	return nil
}

func (s *stubSampleRepo) Query(_ context.Context, _ analytics.SampleQuery, _ int) ([]models.Sample, error) {
	return nil, nil
}

func (s *stubSampleRepo) Metrics(_ context.Context) ([]models.MetricInfo, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Analytics: config.AnalyticsConfig{
			DefaultGranularity: "day",
			DefaultAggregation: "sum",
			ForecastPeriods:    7,
			LookbackDays:       30,
		},
	}
}

func newTestRouter(repo *stubSampleRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	h := NewHandlers(testConfig(), repo, analytics.NewService(repo, log), nil, nil, log)

	router := gin.New()
	router.Use(middleware.ErrorHandlingMiddleware(log))
	router.POST("/api/v1/analytics/aggregate", h.AggregateSamples)
	router.POST("/api/v1/analytics/forecast", h.ForecastSeries)
	router.POST("/api/v1/analytics/summary", h.SummarizeSeries)
	router.GET("/api/v1/analytics/series", h.GetMetricSeries)
	router.GET("/api/v1/analytics/trend", h.GetMetricTrend)
	router.POST("/api/v1/samples", h.IngestSamples)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestAggregateSamplesEndpoint(t *testing.T) {
	router := newTestRouter(&stubSampleRepo{})

	body := AggregateRequest{
		Samples: []analytics.Sample{
			{Timestamp: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), Value: 10},
			{Timestamp: time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC), Value: 20},
			{Timestamp: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), Value: 5},
		},
		Granularity: "day",
		Kind:        "sum",
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/analytics/aggregate", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var series []analytics.AggregatedPoint
	decodeData(t, rec, &series)
	require.Len(t, series, 2)
	assert.Equal(t, 30.0, series[0].Value)
	assert.Equal(t, 5.0, series[1].Value)
}

func TestAggregateSamplesEndpoint_BadGranularity(t *testing.T) {
	router := newTestRouter(&stubSampleRepo{})

	body := AggregateRequest{
		Samples:     []analytics.Sample{{Timestamp: time.Now(), Value: 1}},
		Granularity: "fortnight",
		Kind:        "sum",
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/analytics/aggregate", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForecastEndpoint(t *testing.T) {
	router := newTestRouter(&stubSampleRepo{})

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	body := ForecastRequest{
		Aggregated: []analytics.AggregatedPoint{
			{PeriodStart: base, Value: 10},
			{PeriodStart: base.AddDate(0, 0, 1), Value: 20},
			{PeriodStart: base.AddDate(0, 0, 2), Value: 30},
		},
		Periods:     2,
		Granularity: "day",
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/analytics/forecast", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var forecast []analytics.ForecastPoint
	decodeData(t, rec, &forecast)
	require.Len(t, forecast, 2)
	assert.Equal(t, 40.0, forecast[0].Value)
	assert.Equal(t, 50.0, forecast[1].Value)
}

func TestForecastEndpoint_InvalidPeriods(t *testing.T) {
	router := newTestRouter(&stubSampleRepo{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/analytics/forecast", map[string]interface{}{
		"aggregated": []analytics.AggregatedPoint{
			{PeriodStart: time.Now(), Value: 1},
			{PeriodStart: time.Now().AddDate(0, 0, 1), Value: 2},
		},
		"periods":     -1,
		"granularity": "day",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	router := newTestRouter(&stubSampleRepo{})

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	body := SummaryRequest{
		Aggregated: []analytics.AggregatedPoint{
			{PeriodStart: base, Value: 10},
			{PeriodStart: base.AddDate(0, 0, 1), Value: 20},
			{PeriodStart: base.AddDate(0, 0, 2), Value: 30},
		},
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/analytics/summary", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var summary analytics.TrendSummary
	decodeData(t, rec, &summary)
	assert.Equal(t, analytics.TrendSummary{Total: 60, Average: 20, Delta: 20, GrowthPercent: 200}, summary)
}

func TestMetricTrendEndpoint(t *testing.T) {
	repo := &stubSampleRepo{samples: []analytics.Sample{
		{Timestamp: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), Value: 10},
		{Timestamp: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), Value: 20},
		{Timestamp: time.Date(2024, 1, 3, 7, 0, 0, 0, time.UTC), Value: 30},
	}}
	router := newTestRouter(repo)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/analytics/trend?metric=orders_completed&periods=2", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var report analytics.TrendReport
	decodeData(t, rec, &report)
	assert.Equal(t, "orders_completed", report.Metric)
	assert.Len(t, report.Series, 3)
	assert.Len(t, report.Forecast, 2)
	assert.Equal(t, 200.0, report.Summary.GrowthPercent)
}

func TestMetricSeriesEndpoint_MissingMetric(t *testing.T) {
	router := newTestRouter(&stubSampleRepo{})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/analytics/series", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestSamplesEndpoint(t *testing.T) {
	repo := &stubSampleRepo{}
	router := newTestRouter(repo)

	body := IngestSamplesRequest{
		Metric: "orders_completed",
		Samples: []analytics.Sample{
			{Timestamp: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), Value: 12},
		},
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/samples", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, repo.samples, 1)
}

func TestIngestSamplesEndpoint_EmptyBatch(t *testing.T) {
	router := newTestRouter(&stubSampleRepo{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/samples", map[string]interface{}{
		"metric":  "orders_completed",
		"samples": []analytics.Sample{},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
