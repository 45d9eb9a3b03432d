package metrics

import "time"

// Collector records operational metrics. The Prometheus implementation is
// the only one; the interface keeps handlers and middleware testable without
// a registry.
type Collector interface {
	RecordHTTPRequest(method, path string, statusCode int, duration time.Duration)
	RecordWebSocketConnection(event string)
	RecordComputation(operation, granularity, kind string, duration time.Duration)
	RecordSamplesIngested(metric string, count int)
}

// Config controls metric naming.
type Config struct {
	Enabled bool
	Prefix  string
}
