package sqlite

import (
	"svclog/internal/metrics"
	"time"
)

func (mod *OutModule) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	if mod == nil {
		return
	}
	batch := metrics.NewBatch(mod.Namespace, interval)
	batch.Add("inserted", mod.Metrics.Inserted.Swap(0), "count", metrics.Counter, "Rows inserted in the interval")
	batch.Add("failures", mod.Metrics.Failures.Swap(0), "count", metrics.Counter, "Failed inserts in the interval")
	collection = batch.Metrics()
	return
}
