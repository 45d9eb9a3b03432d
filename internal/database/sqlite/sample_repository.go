package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ShilinYang123/PG-PMC-sub001/internal/core/analytics"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/database/models"
	"github.com/ShilinYang123/PG-PMC-sub001/internal/database/repositories"
	"github.com/jmoiron/sqlx"
)

// SampleRepository implements repositories.SampleRepository over SQLite.
// Timestamps are stored as unix milliseconds so range predicates and
// aggregates stay plain integer comparisons regardless of driver.
type SampleRepository struct {
	db *sqlx.DB
}

// NewSampleRepository creates a new SampleRepository
func NewSampleRepository(db *sqlx.DB) repositories.SampleRepository {
	return &SampleRepository{db: db}
}

// sampleRow is the raw table shape; time columns are unix milliseconds.
type sampleRow struct {
	ID         int64   `db:"id"`
	Metric     string  `db:"metric"`
	Category   string  `db:"category"`
	Label      string  `db:"label"`
	Value      float64 `db:"value"`
	RecordedAt int64   `db:"recorded_at"`
	CreatedAt  int64   `db:"created_at"`
}

func (row sampleRow) toModel() models.Sample {
	return models.Sample{
		ID:         row.ID,
		Metric:     row.Metric,
		Category:   row.Category,
		Label:      row.Label,
		Value:      row.Value,
		RecordedAt: time.UnixMilli(row.RecordedAt).UTC(),
		CreatedAt:  time.UnixMilli(row.CreatedAt).UTC(),
	}
}

// InsertBatch stores a batch of samples for one metric in a single transaction.
func (r *SampleRepository) InsertBatch(ctx context.Context, metric string, samples []analytics.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO samples (metric, category, label, value, recorded_at, created_at)
		VALUES (:metric, :category, :label, :value, :recorded_at, :created_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().UnixMilli()
	for _, s := range samples {
		row := sampleRow{
			Metric:     metric,
			Category:   s.Category,
			Label:      s.Label,
			Value:      s.Value,
			RecordedAt: s.Timestamp.UTC().UnixMilli(),
			CreatedAt:  now,
		}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit samples: %w", err)
	}

	return nil
}

// Samples returns the stored samples matching the query in the shape the
// analytics core consumes, oldest first.
func (r *SampleRepository) Samples(ctx context.Context, query analytics.SampleQuery) ([]analytics.Sample, error) {
	sql, args := buildSampleQuery(query, "recorded_at ASC", 0)

	var rows []sampleRow
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}

	samples := make([]analytics.Sample, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, analytics.Sample{
			Timestamp: time.UnixMilli(row.RecordedAt).UTC(),
			Value:     row.Value,
			Category:  row.Category,
			Label:     row.Label,
		})
	}

	return samples, nil
}

// Query returns the raw stored rows matching the query, newest first.
func (r *SampleRepository) Query(ctx context.Context, query analytics.SampleQuery, limit int) ([]models.Sample, error) {
	sql, args := buildSampleQuery(query, "recorded_at DESC", limit)

	var rows []sampleRow
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}

	results := make([]models.Sample, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toModel())
	}

	return results, nil
}

// Metrics lists the distinct stored metrics with their sample spans.
func (r *SampleRepository) Metrics(ctx context.Context) ([]models.MetricInfo, error) {
	query := `
		SELECT metric,
		       COUNT(*) AS sample_count,
		       MIN(recorded_at) AS first_sample,
		       MAX(recorded_at) AS last_sample
		FROM samples
		GROUP BY metric
		ORDER BY metric
	`

	var rows []struct {
		Metric      string `db:"metric"`
		SampleCount int64  `db:"sample_count"`
		FirstSample int64  `db:"first_sample"`
		LastSample  int64  `db:"last_sample"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}

	metrics := make([]models.MetricInfo, 0, len(rows))
	for _, row := range rows {
		metrics = append(metrics, models.MetricInfo{
			Metric:      row.Metric,
			SampleCount: row.SampleCount,
			FirstSample: time.UnixMilli(row.FirstSample).UTC(),
			LastSample:  time.UnixMilli(row.LastSample).UTC(),
		})
	}

	return metrics, nil
}

func buildSampleQuery(query analytics.SampleQuery, order string, limit int) (string, []interface{}) {
	sql := `
		SELECT id, metric, category, label, value, recorded_at, created_at
		FROM samples
		WHERE metric = ?
	`
	args := []interface{}{query.Metric}

	if query.Category != "" {
		sql += " AND category = ?"
		args = append(args, query.Category)
	}
	if !query.From.IsZero() {
		sql += " AND recorded_at >= ?"
		args = append(args, query.From.UTC().UnixMilli())
	}
	if !query.To.IsZero() {
		sql += " AND recorded_at < ?"
		args = append(args, query.To.UTC().UnixMilli())
	}

	sql += " ORDER BY " + order
	if limit > 0 {
		sql += " LIMIT ?"
		args = append(args, limit)
	}

	return sql, args
}
