package queue

import (
	"svclog/internal/metrics"
	"time"
)

func (queue *Queue[T]) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	batch := metrics.NewBatch(queue.Namespace, interval)

	batch.Add("depth", int64(queue.Len()), "count", metrics.Gauge, "Current number of events in the queue")
	batch.Add("capacity", uint64(queue.Size), "count", metrics.Gauge, "Fixed queue capacity")
	batch.Add("puts", queue.Metrics.Puts.Swap(0), "count", metrics.Counter, "Events enqueued in the interval")
	batch.Add("takes", queue.Metrics.Takes.Swap(0), "count", metrics.Counter, "Events dequeued in the interval")
	batch.Add("full_events", queue.Metrics.FullEvents.Swap(0), "count", metrics.Counter, "Put attempts that found the queue full in the interval")

	collection = batch.Metrics()
	return
}
