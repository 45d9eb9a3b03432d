package models

import "time"

// Sample is a stored metric measurement row.
type Sample struct {
	ID         int64     `db:"id" json:"id"`
	Metric     string    `db:"metric" json:"metric"`
	Category   string    `db:"category" json:"category,omitempty"`
	Label      string    `db:"label" json:"label,omitempty"`
	Value      float64   `db:"value" json:"value"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// MetricInfo describes one stored metric for listing endpoints.
type MetricInfo struct {
	Metric      string    `db:"metric" json:"metric"`
	SampleCount int64     `db:"sample_count" json:"sample_count"`
	FirstSample time.Time `db:"first_sample" json:"first_sample"`
	LastSample  time.Time `db:"last_sample" json:"last_sample"`
}
