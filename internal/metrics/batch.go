package metrics

import (
	"fmt"
	"strings"
	"time"
)

// Starts a metric batch for one component, stamped with the current time
func NewBatch(namespace []string, interval time.Duration) (batch *Batch) {
	batch = &Batch{
		namespace:  namespace,
		interval:   interval,
		recordTime: time.Now(),
	}
	return
}

// Appends one metric to the batch
func (batch *Batch) Add(name string, raw any, unit string, metricType MetricType, description string) {
	batch.collection = append(batch.collection, Metric{
		Name:        name,
		Description: description,
		Namespace:   batch.namespace,
		Type:        metricType,
		Timestamp:   batch.recordTime,
		Value: MetricValue{
			Raw:      raw,
			Unit:     unit,
			Interval: batch.interval,
		},
	})
}

func (batch *Batch) Metrics() (collection []Metric) {
	collection = batch.collection
	return
}

// Converts internal metric type to export (JSON) metric
func (inMetric Metric) Convert() (outMetric JMetric) {
	outMetric.Name = inMetric.Name
	outMetric.Description = inMetric.Description
	outMetric.Namespace = strings.Join(inMetric.Namespace, "/")
	outMetric.Type = string(inMetric.Type)
	outMetric.Timestamp = inMetric.Timestamp.Format(time.RFC3339Nano)
	outMetric.Value = JMetricValue{
		Raw:      fmt.Sprintf("%v", inMetric.Value.Raw),
		Unit:     inMetric.Value.Unit,
		Interval: inMetric.Value.Interval.String(),
	}
	return
}
