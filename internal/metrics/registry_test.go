package metrics

import (
	"context"
	"testing"
	"time"
)

func setupRegistryWithData(t *testing.T) (reg *Registry, slices map[string]time.Time) {
	t.Helper()

	reg = New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	interval := time.Minute

	ts1 := reg.NewTimeSlice(base, interval)
	ts2 := reg.NewTimeSlice(base.Add(1*time.Minute), interval)
	ts3 := reg.NewTimeSlice(base.Add(2*time.Minute), interval)

	procNS := []string{"Daemon", "Processor"}
	queueNS := []string{"Daemon", "Queue"}

	reg.Add(ts1, []Metric{
		{Name: "written", Description: "lines written", Namespace: procNS, Type: Counter, Timestamp: ts1,
			Value: MetricValue{Raw: uint64(10), Unit: "count", Interval: interval}},
		{Name: "depth", Description: "queue depth", Namespace: queueNS, Type: Gauge, Timestamp: ts1,
			Value: MetricValue{Raw: int64(3), Unit: "count", Interval: interval}},
	})
	reg.Add(ts2, []Metric{
		{Name: "written", Description: "lines written", Namespace: procNS, Type: Counter, Timestamp: ts2,
			Value: MetricValue{Raw: uint64(7), Unit: "count", Interval: interval}},
		{Name: "depth", Description: "queue depth", Namespace: queueNS, Type: Gauge, Timestamp: ts2,
			Value: MetricValue{Raw: int64(1), Unit: "count", Interval: interval}},
		{Name: "write_time", Description: "write latency", Namespace: procNS, Type: Summary, Timestamp: ts2,
			Value: MetricValue{Raw: 1.5, Unit: "ms", Interval: interval}},
	})
	reg.Add(ts3, []Metric{
		{Name: "written", Description: "lines written", Namespace: procNS, Type: Counter, Timestamp: ts3,
			Value: MetricValue{Raw: uint64(2), Unit: "count", Interval: interval}},
	})

	slices = map[string]time.Time{"ts1": ts1, "ts2": ts2, "ts3": ts3}
	return
}

func TestRegistry_Search(t *testing.T) {
	reg, ts := setupRegistryWithData(t)

	tests := []struct {
		name            string
		metricName      string
		namespacePrefix []string
		start           time.Time
		end             time.Time
		want            int
	}{
		{"all metrics", "", nil, time.Time{}, time.Time{}, 6},
		{"exact name only", "writ", nil, time.Time{}, time.Time{}, 0},
		{"written everywhere", "written", nil, time.Time{}, time.Time{}, 3},
		{"queue namespace", "", []string{"Daemon", "Queue"}, time.Time{}, time.Time{}, 2},
		{"namespace prefix", "", []string{"Daemon"}, time.Time{}, time.Time{}, 6},
		{"namespace longer than metric", "", []string{"Daemon", "Queue", "Extra"}, time.Time{}, time.Time{}, 0},
		{"window", "", nil, ts["ts2"], ts["ts3"], 4},
		{"single slice", "written", nil, ts["ts3"], ts["ts3"], 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := reg.Search(tt.metricName, tt.namespacePrefix, tt.start, tt.end)
			if len(results) != tt.want {
				t.Fatalf("expected %d results, got %d", tt.want, len(results))
			}
		})
	}
}

func TestRegistry_SearchOrdered(t *testing.T) {
	reg, _ := setupRegistryWithData(t)

	results := reg.Search("written", nil, time.Time{}, time.Time{})
	for i := 1; i < len(results); i++ {
		if results[i].Timestamp.Before(results[i-1].Timestamp) {
			t.Fatalf("expected oldest first, got %v before %v", results[i-1].Timestamp, results[i].Timestamp)
		}
	}
}

func TestRegistry_Discover(t *testing.T) {
	reg, _ := setupRegistryWithData(t)

	tests := []struct {
		name      string
		unit      string
		mType     MetricType
		ns        []string
		wantCount int
	}{
		{"all", "", "", nil, 3},
		{"unit filter", "ms", "", nil, 1},
		{"counter only", "", Counter, nil, 1},
		{"processor namespace", "", "", []string{"Daemon", "Processor"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := reg.Discover("", "", tt.ns, tt.unit, tt.mType)
			if len(results) != tt.wantCount {
				t.Fatalf("expected %d results, got %d", tt.wantCount, len(results))
			}
			for _, m := range results {
				if m.Value.Raw != nil || !m.Timestamp.IsZero() {
					t.Fatalf("expected discovery without values, got %+v", m)
				}
			}
		})
	}
}

func TestRegistry_Prune(t *testing.T) {
	reg, ts := setupRegistryWithData(t)

	reg.Prune(ts["ts3"].Add(30*time.Second), time.Minute)

	results := reg.Search("", nil, time.Time{}, time.Time{})
	if len(results) == 0 {
		t.Fatalf("expected metrics after prune, got none")
	}
	for _, m := range results {
		if m.Timestamp.Before(ts["ts3"]) {
			t.Fatalf("unexpected old metric timestamp: %v", m.Timestamp)
		}
	}
}

func TestRegistry_AddUnknownSlice(t *testing.T) {
	reg := New()
	reg.Add(time.Now(), []Metric{{Name: "lost"}})

	if got := reg.Search("", nil, time.Time{}, time.Time{}); len(got) != 0 {
		t.Fatalf("expected metrics for unknown slice to be dropped, got %d", len(got))
	}
}

func TestConvert(t *testing.T) {
	in := Metric{
		Name:        "written",
		Description: "lines written",
		Namespace:   []string{"Daemon", "Processor"},
		Value:       MetricValue{Raw: uint64(45), Unit: "count", Interval: time.Second},
		Type:        Counter,
		Timestamp:   time.Date(2001, time.January, 1, 1, 1, 1, 1, time.UTC),
	}
	want := JMetric{
		Name:        "written",
		Description: "lines written",
		Namespace:   "Daemon/Processor",
		Value:       JMetricValue{Raw: "45", Unit: "count", Interval: "1s"},
		Type:        "counter",
		Timestamp:   "2001-01-01T01:01:01.000000001Z",
	}

	if got := in.Convert(); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

type staticCollector struct {
	calls int
}

func (c *staticCollector) CollectMetrics(interval time.Duration) []Metric {
	c.calls++
	batch := NewBatch([]string{"Test"}, interval)
	batch.Add("calls", uint64(c.calls), "count", Counter, "collector invocations")
	return batch.Metrics()
}

func TestGatherer_CollectOnce(t *testing.T) {
	collector := &staticCollector{}
	gatherer := NewGatherer(time.Minute, time.Hour, collector, nil)

	gatherer.CollectOnce(context.Background(), time.Now())

	results := gatherer.Registry.Search("calls", []string{"Test"}, time.Time{}, time.Time{})
	if len(results) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(results))
	}
	if results[0].Value.Raw != uint64(1) {
		t.Fatalf("expected raw 1, got %v", results[0].Value.Raw)
	}
}
