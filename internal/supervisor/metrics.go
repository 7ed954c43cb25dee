package supervisor

import (
	"svclog/internal/metrics"
	"time"
)

func (supervisor *Supervisor) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	batch := metrics.NewBatch(supervisor.Namespace, interval)

	batch.Add("state", supervisor.State().String(), "state", metrics.Gauge, "Current connection state")
	batch.Add("attempts", supervisor.Metrics.Attempts.Swap(0), "count", metrics.Counter, "Connection attempts in the interval")
	batch.Add("failures", supervisor.Metrics.Failures.Swap(0), "count", metrics.Counter, "Failed connection attempts in the interval")
	batch.Add("disconnects", supervisor.Metrics.Disconnects.Swap(0), "count", metrics.Counter, "Established connections lost in the interval")
	batch.Add("events", supervisor.Metrics.Events.Swap(0), "count", metrics.Counter, "Events observed on the connection in the interval")

	collection = batch.Metrics()
	return
}
