package repositories

import (
	"context"

	"github.com/ShilinYang123/PG-PMC-sub001/internal/core/analytics"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/database/models"
)

// SampleRepository provides access to stored metric samples. Its query side
// doubles as the analytics.SampleSource feeding the core.
type SampleRepository interface {
	analytics.SampleSource

	// InsertBatch stores a batch of samples for one metric in a single
	// transaction.
	InsertBatch(ctx context.Context, metric string, samples []analytics.Sample) error

	// Query returns the raw stored rows matching the query, newest first.
	Query(ctx context.Context, query analytics.SampleQuery, limit int) ([]models.Sample, error)

	// Metrics lists the distinct stored metrics with their sample spans.
	Metrics(ctx context.Context) ([]models.MetricInfo, error)
}
