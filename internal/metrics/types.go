package metrics

import (
	"sync"
	"time"
)

type Registry struct {
	mu     sync.RWMutex
	slices map[time.Time]map[string]map[string]Metric // key0=time slice, key1=namespace, key2=name
}

type MetricType string

const (
	Counter MetricType = "counter" // reset every interval
	Gauge   MetricType = "gauge"   // point in time value
	Summary MetricType = "summary" // avg/min/max
)

// Container for a metric and associated data
type Metric struct {
	Name        string // e.g. lines_written, depth
	Description string
	Namespace   []string // e.g. "Daemon/Processor"
	Value       MetricValue
	Type        MetricType
	Timestamp   time.Time // time when the metric was recorded
}

// Specific value of a metric
type MetricValue struct {
	Raw      any           // uint64, int64, float64
	Unit     string        // e.g. "ms", "bytes", "count"
	Interval time.Duration // measurement window
}

// JSON version
type JMetric struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Namespace   string       `json:"namespace"`
	Value       JMetricValue `json:"value"`
	Type        string       `json:"type"`
	Timestamp   string       `json:"timestamp"`
}

type JMetricValue struct {
	Raw      string `json:"raw"`
	Unit     string `json:"unit"`
	Interval string `json:"interval"`
}

// Anything that can report its own metrics for one collection interval
type Collector interface {
	CollectMetrics(interval time.Duration) []Metric
}

// Accumulates metrics of one component sharing namespace, interval and record time
type Batch struct {
	namespace  []string
	interval   time.Duration
	recordTime time.Time
	collection []Metric
}

// Periodically pulls metrics from collectors into a registry
type Gatherer struct {
	Interval   time.Duration // record interval
	Retention  time.Duration // maximum age of stored metrics
	Registry   *Registry
	collectors []Collector
}
