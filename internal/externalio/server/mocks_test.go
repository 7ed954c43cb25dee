package server

import (
	"svclog/internal/metrics"
	"time"
)

type searchCall struct {
	name       string
	namespace  []string
	start, end time.Time
}

func mockDiscoverer(results []metrics.Metric, calls *[]searchCall) Discoverer {
	return func(name, desc string, ns []string, unit string, mt metrics.MetricType) []metrics.Metric {
		if calls != nil {
			*calls = append(*calls, searchCall{name: name, namespace: ns})
		}
		return results
	}
}

func mockDataSearcher(results []metrics.Metric, calls *[]searchCall) DataSearcher {
	return func(name string, ns []string, start, end time.Time) []metrics.Metric {
		if calls != nil {
			*calls = append(*calls, searchCall{name: name, namespace: ns, start: start, end: end})
		}
		return results
	}
}

func mockHealth() Health {
	return Health{Status: "ok", State: "connected", QueueDepth: 3, QueueCapacity: 4096}
}
