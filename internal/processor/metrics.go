package processor

import (
	"svclog/internal/metrics"
	"time"
)

func (instance *Instance) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	received := instance.Metrics.Received.Swap(0)
	filtered := instance.Metrics.Filtered.Swap(0)
	written := instance.Metrics.Written.Swap(0)
	sumNs := instance.Metrics.SumNs.Swap(0)
	maxNs := instance.Metrics.MaxNs.Swap(0)

	var avgNs uint64
	if written > 0 {
		avgNs = sumNs / written
	}

	batch := metrics.NewBatch(instance.Namespace, interval)
	batch.Add("received", received, "count", metrics.Counter, "Events taken from the queue in the interval")
	batch.Add("accepted", instance.Metrics.Accepted.Swap(0), "count", metrics.Counter, "Events that passed the filter in the interval")
	batch.Add("filtered", filtered, "count", metrics.Counter, "Events rejected by the filter in the interval")
	batch.Add("written", written, "count", metrics.Counter, "Events written to the log file in the interval")
	batch.Add("output_errors", instance.Metrics.OutputErrors.Swap(0), "count", metrics.Counter, "Failed secondary output writes in the interval")
	batch.Add("panics", instance.Metrics.Panics.Swap(0), "count", metrics.Counter, "Recovered panics in the interval")
	batch.Add("write_time_avg_ns", avgNs, "ns", metrics.Summary, "Average time spent writing one event in the interval")
	batch.Add("write_time_max_ns", maxNs, "ns", metrics.Summary, "Maximum time spent writing one event in the interval")

	collection = batch.Metrics()
	return
}
