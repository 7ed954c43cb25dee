package logwriter

import (
	"svclog/internal/metrics"
	"time"
)

func (writer *Writer) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	batch := metrics.NewBatch(writer.Namespace, interval)

	batch.Add("lines_written", writer.Metrics.Lines.Swap(0), "count", metrics.Counter, "Lines appended to the log file in the interval")
	batch.Add("bytes_written", writer.Metrics.Bytes.Swap(0), "bytes", metrics.Counter, "Bytes appended to the log file in the interval")
	batch.Add("rotations", writer.Metrics.Rotations.Swap(0), "count", metrics.Counter, "Successful reopen cycles in the interval")
	batch.Add("failures", writer.Metrics.Failures.Swap(0), "count", metrics.Counter, "Failed writes or reopens in the interval")

	collection = batch.Metrics()
	return
}
