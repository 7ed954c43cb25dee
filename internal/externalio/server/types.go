package server

import (
	"context"
	"svclog/internal/metrics"
	"time"
)

type httpLogWriter struct {
	ctx context.Context
}

type Jerror struct {
	Msg string `json:"error"`
}

// Liveness snapshot of the running daemon
type Health struct {
	Status        string `json:"status"`
	State         string `json:"connection_state"`
	EventServer   string `json:"event_server"`
	LogFile       string `json:"log_file"`
	QueueDepth    int    `json:"queue_depth"`
	QueueCapacity int    `json:"queue_capacity"`
	DroppedEvents uint64 `json:"dropped_events"`
	Uptime        string `json:"uptime"`
	SessionID     string `json:"session_id"`
}

type DataSearcher func(name string, namespacePrefix []string, start, end time.Time) []metrics.Metric
type Discoverer func(name, description string, namespacePrefix []string, unit string, metricType metrics.MetricType) []metrics.Metric
type HealthReporter func() Health

type requestIDKey struct{}
