package source

import (
	"svclog/internal/metrics"
	"time"
)

func (connector *TCPConnector) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	batch := metrics.NewBatch(connector.Namespace, interval)

	batch.Add("dials", connector.Metrics.Dials.Swap(0), "count", metrics.Counter, "Connection attempts in the interval")
	batch.Add("lines", connector.Metrics.Lines.Swap(0), "count", metrics.Counter, "Non-empty lines read in the interval")
	batch.Add("bytes", connector.Metrics.Bytes.Swap(0), "bytes", metrics.Counter, "Bytes of event lines read in the interval")
	batch.Add("decoded", connector.Metrics.Decoded.Swap(0), "count", metrics.Counter, "Events decoded in the interval")
	batch.Add("malformed", connector.Metrics.Malformed.Swap(0), "count", metrics.Counter, "Lines skipped as malformed in the interval")

	collection = batch.Metrics()
	return
}
