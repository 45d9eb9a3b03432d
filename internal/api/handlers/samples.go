package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ShilinYang123/PG-PMC-sub001/internal/core/analytics"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/websocket"
	"github.com/ShilinYang123/PG-PMC-sub001/pkg/utils"
)

// IngestSamplesRequest is the body of POST /api/v1/samples.
type IngestSamplesRequest struct {
	Metric  string             `json:"metric" binding:"required"`
	Samples []analytics.Sample `json:"samples" binding:"required"`
}

// IngestSamples stores a batch of raw samples for one metric.
func (h *Handlers) IngestSamples(c *gin.Context) {
	var req IngestSamplesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Samples) == 0 {
		utils.SendError(c, http.StatusBadRequest, "Sample batch cannot be empty")
		return
	}
	for i, s := range req.Samples {
		if s.Timestamp.IsZero() {
			utils.SendError(c, http.StatusBadRequest, "Sample "+strconv.Itoa(i)+" is missing a timestamp")
			return
		}
	}

	if err := h.samples.InsertBatch(c.Request.Context(), req.Metric, req.Samples); err != nil {
		h.logger.WithError(err).Error("Failed to insert samples")
		utils.SendError(c, http.StatusInternalServerError, "Failed to store samples")
		return
	}

	if h.collector != nil {
		h.collector.RecordSamplesIngested(req.Metric, len(req.Samples))
	}

	if h.wsHub != nil {
		h.wsHub.BroadcastToMetric(req.Metric, websocket.NewMessage(websocket.MessageTypeSamplesIngested, map[string]interface{}{
			"metric": req.Metric,
			"count":  len(req.Samples),
		}))
	}

	utils.SendSuccess(c, gin.H{
		"metric":   req.Metric,
		"ingested": len(req.Samples),
	})
}

// GetSamples returns stored samples for a metric, newest first.
func (h *Handlers) GetSamples(c *gin.Context) {
	query, ok := h.sampleQueryFromRequest(c)
	if !ok {
		return
	}

	limit := 500
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.SendError(c, http.StatusBadRequest, "Invalid limit: "+raw)
			return
		}
		limit = parsed
	}

	rows, err := h.samples.Query(c.Request.Context(), query, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to query samples")
		utils.SendError(c, http.StatusInternalServerError, "Failed to query samples")
		return
	}

	utils.SendSuccessWithMeta(c, rows, gin.H{
		"count": len(rows),
		"limit": limit,
	})
}

// ListMetrics returns the distinct stored metrics with their sample spans.
func (h *Handlers) ListMetrics(c *gin.Context) {
	metrics, err := h.samples.Metrics(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list metrics")
		utils.SendError(c, http.StatusInternalServerError, "Failed to list metrics")
		return
	}

	utils.SendSuccess(c, metrics)
}

// sampleQueryFromRequest builds a SampleQuery from query parameters,
// defaulting the range to the configured lookback window ending now.
func (h *Handlers) sampleQueryFromRequest(c *gin.Context) (analytics.SampleQuery, bool) {
	metric := c.Query("metric")
	if metric == "" {
		utils.SendError(c, http.StatusBadRequest, "Query parameter 'metric' is required")
		return analytics.SampleQuery{}, false
	}

	now := time.Now().UTC()
	query := analytics.SampleQuery{
		Metric:   metric,
		Category: c.Query("category"),
		From:     now.AddDate(0, 0, -h.cfg.Analytics.LookbackDays),
		To:       now,
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.SendError(c, http.StatusBadRequest, "Invalid 'from' timestamp: "+raw)
			return analytics.SampleQuery{}, false
		}
		query.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.SendError(c, http.StatusBadRequest, "Invalid 'to' timestamp: "+raw)
			return analytics.SampleQuery{}, false
		}
		query.To = to
	}

	if !query.To.After(query.From) {
		utils.SendError(c, http.StatusBadRequest, "'to' must be after 'from'")
		return analytics.SampleQuery{}, false
	}

	return query, true
}
