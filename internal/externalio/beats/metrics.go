package beats

import (
	"svclog/internal/metrics"
	"time"
)

func (mod *OutModule) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	if mod == nil {
		return
	}
	batch := metrics.NewBatch(mod.Namespace, interval)
	batch.Add("sent", mod.Metrics.Sent.Swap(0), "count", metrics.Counter, "Events acknowledged by the beats server in the interval")
	batch.Add("failures", mod.Metrics.Failures.Swap(0), "count", metrics.Counter, "Failed sends or redials in the interval")
	batch.Add("redials", mod.Metrics.Redials.Swap(0), "count", metrics.Counter, "Reconnect attempts in the interval")
	batch.Add("dropped", mod.Metrics.Dropped.Swap(0), "count", metrics.Counter, "Events skipped while disconnected in the interval")
	collection = batch.Metrics()
	return
}
