package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ShilinYang123/PG-PMC-sub001/internal/core/analytics"
	apperrors "github.com/ShilinYang123/PG-PMC-sub001/pkg/errors"
	"github.com/ShilinYang123/PG-PMC-sub001/pkg/utils"
)

// AggregateRequest is the body of POST /api/v1/analytics/aggregate: inline
// samples to bucket and reduce without touching the sample store.
type AggregateRequest struct {
	Samples     []analytics.Sample `json:"samples" binding:"required"`
	Granularity string             `json:"granularity" binding:"required"`
	Kind        string             `json:"kind" binding:"required"`
}

// ForecastRequest is the body of POST /api/v1/analytics/forecast.
type ForecastRequest struct {
	Aggregated  []analytics.AggregatedPoint `json:"aggregated" binding:"required"`
	Periods     int                         `json:"periods" binding:"required"`
	Granularity string                      `json:"granularity" binding:"required"`
}

// SummaryRequest is the body of POST /api/v1/analytics/summary.
type SummaryRequest struct {
	Aggregated []analytics.AggregatedPoint `json:"aggregated" binding:"required"`
}

// AggregateSamples buckets and reduces inline samples.
func (h *Handlers) AggregateSamples(c *gin.Context) {
	var req AggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	granularity, kind, ok := parseGranularityAndKind(c, req.Granularity, req.Kind)
	if !ok {
		return
	}

	start := time.Now()
	series := analytics.Aggregate(req.Samples, granularity, kind)
	h.recordComputation("aggregate", granularity, kind, start)

	utils.SendSuccessWithMeta(c, series, gin.H{
		"samples": len(req.Samples),
		"periods": len(series),
	})
}

// ForecastSeries projects future periods from an aggregated series.
func (h *Handlers) ForecastSeries(c *gin.Context) {
	var req ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	granularity, err := analytics.ParseGranularity(req.Granularity)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	forecast, err := analytics.Forecast(req.Aggregated, req.Periods, granularity)
	if err != nil {
		if stderrors.Is(err, analytics.ErrInvalidPeriods) {
			c.Error(apperrors.InvalidArgument(err.Error()))
			c.Abort()
			return
		}
		h.logger.WithError(err).Error("Forecast failed")
		utils.SendError(c, http.StatusInternalServerError, "Forecast failed")
		return
	}
	h.recordComputation("forecast", granularity, "", start)

	utils.SendSuccessWithMeta(c, forecast, gin.H{
		"input_periods":    len(req.Aggregated),
		"forecast_periods": len(forecast),
	})
}

// SummarizeSeries computes descriptive statistics for an aggregated series.
func (h *Handlers) SummarizeSeries(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	start := time.Now()
	summary := analytics.Summarize(req.Aggregated)
	h.recordComputation("summarize", "", "", start)

	utils.SendSuccess(c, summary)
}

// GetMetricSeries aggregates a stored metric over a date range.
func (h *Handlers) GetMetricSeries(c *gin.Context) {
	query, ok := h.sampleQueryFromRequest(c)
	if !ok {
		return
	}
	granularity, kind, ok := h.granularityAndKindFromRequest(c)
	if !ok {
		return
	}

	start := time.Now()
	series, err := h.analytics.MetricSeries(c.Request.Context(), query, granularity, kind)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute metric series")
		utils.SendError(c, http.StatusInternalServerError, "Failed to compute metric series")
		return
	}
	h.recordComputation("aggregate", granularity, kind, start)

	utils.SendSuccessWithMeta(c, series, gin.H{
		"metric":      query.Metric,
		"granularity": granularity,
		"kind":        kind,
		"periods":     len(series),
	})
}

// GetMetricTrend returns the aggregated series, forecast and summary for a
// stored metric in one response.
func (h *Handlers) GetMetricTrend(c *gin.Context) {
	query, ok := h.sampleQueryFromRequest(c)
	if !ok {
		return
	}
	granularity, kind, ok := h.granularityAndKindFromRequest(c)
	if !ok {
		return
	}

	periods := h.cfg.Analytics.ForecastPeriods
	if raw := c.Query("periods"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.SendError(c, http.StatusBadRequest, "Invalid periods: "+raw)
			return
		}
		periods = parsed
	}

	start := time.Now()
	report, err := h.analytics.MetricTrend(c.Request.Context(), query, granularity, kind, periods)
	if err != nil {
		if stderrors.Is(err, analytics.ErrInvalidPeriods) {
			c.Error(apperrors.InvalidArgument(err.Error()))
			c.Abort()
			return
		}
		h.logger.WithError(err).Error("Failed to compute metric trend")
		utils.SendError(c, http.StatusInternalServerError, "Failed to compute metric trend")
		return
	}
	h.recordComputation("trend", granularity, kind, start)

	utils.SendSuccess(c, report)
}

func (h *Handlers) granularityAndKindFromRequest(c *gin.Context) (analytics.Granularity, analytics.AggregationKind, bool) {
	granularity := c.DefaultQuery("granularity", h.cfg.Analytics.DefaultGranularity)
	kind := c.DefaultQuery("kind", h.cfg.Analytics.DefaultAggregation)
	return parseGranularityAndKind(c, granularity, kind)
}

func parseGranularityAndKind(c *gin.Context, rawGranularity, rawKind string) (analytics.Granularity, analytics.AggregationKind, bool) {
	granularity, err := analytics.ParseGranularity(rawGranularity)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return "", "", false
	}

	kind, err := analytics.ParseAggregationKind(rawKind)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return "", "", false
	}

	return granularity, kind, true
}

func (h *Handlers) recordComputation(operation string, granularity analytics.Granularity, kind analytics.AggregationKind, start time.Time) {
	if h.collector == nil {
		return
	}
	h.collector.RecordComputation(operation, string(granularity), string(kind), time.Since(start))
}
