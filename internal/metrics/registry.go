// Central registry for time sliced metrics of all running components
package metrics

import (
	"strings"
	"time"
)

// Creates new metric registry storage
func New() (new *Registry) {
	new = &Registry{
		slices: make(map[time.Time]map[string]map[string]Metric),
	}
	return
}

// Setup metrics map for this collection interval.
// Time is truncated to the interval so collectors in the same interval share a slice.
func (registry *Registry) NewTimeSlice(now time.Time, interval time.Duration) (timeSlice time.Time) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	timeSlice = now
	if interval > 0 {
		timeSlice = now.Truncate(interval)
	}
	if registry.slices[timeSlice] == nil {
		registry.slices[timeSlice] = make(map[string]map[string]Metric)
	}
	return
}

// Adds batch of metrics to an existing time slice (unknown slices are ignored)
func (registry *Registry) Add(timeSlice time.Time, collection []Metric) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	slice, ok := registry.slices[timeSlice]
	if !ok {
		return
	}

	for _, metric := range collection {
		namespace := strings.Join(metric.Namespace, "/")
		if slice[namespace] == nil {
			slice[namespace] = make(map[string]Metric)
		}
		slice[namespace][metric.Name] = metric
	}
}

// Deletes time slices older than maxAge relative to currentTime
func (registry *Registry) Prune(currentTime time.Time, maxAge time.Duration) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	for timeSlice := range registry.slices {
		if currentTime.Sub(timeSlice) > maxAge {
			delete(registry.slices, timeSlice)
		}
	}
}
