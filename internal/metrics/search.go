package metrics

import (
	"slices"
	"strings"
	"time"
)

// Exact or prefix namespace match. Empty query matches all.
func matchesNamespace(metricNS, queryNS []string) (matches bool) {
	if len(queryNS) > len(metricNS) {
		return
	}
	matches = slices.Equal(metricNS[:len(queryNS)], queryNS)
	return
}

// Returns all metrics matching given name and namespace prefix, oldest slice first.
// Empty name matches all names, zero start/end leave the window open.
func (registry *Registry) Search(name string, namespacePrefix []string, start, end time.Time) (results []Metric) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	var timestamps []time.Time
	for ts := range registry.slices {
		if !start.IsZero() && ts.Before(start) {
			continue
		}
		if !end.IsZero() && ts.After(end) {
			continue
		}
		timestamps = append(timestamps, ts)
	}
	slices.SortFunc(timestamps, func(a, b time.Time) int { return a.Compare(b) })

	for _, ts := range timestamps {
		for nsStr, byName := range registry.slices[ts] {
			if !matchesNamespace(strings.Split(nsStr, "/"), namespacePrefix) {
				continue
			}
			for metricName, metric := range byName {
				if name == "" || metricName == name {
					results = append(results, metric)
				}
			}
		}
	}
	return
}

// Lists distinct metric kinds matching the filters, without values or timestamps.
// Name and description are substring filters, unit and type are exact.
func (registry *Registry) Discover(name, description string, namespacePrefix []string, unit string, metricType MetricType) (results []Metric) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	seen := make(map[string]bool)
	for _, byNamespace := range registry.slices {
		for nsStr, byName := range byNamespace {
			if !matchesNamespace(strings.Split(nsStr, "/"), namespacePrefix) {
				continue
			}

			for _, metric := range byName {
				if name != "" && !strings.Contains(metric.Name, name) {
					continue
				}
				if description != "" && !strings.Contains(metric.Description, description) {
					continue
				}
				if unit != "" && metric.Value.Unit != unit {
					continue
				}
				if metricType != "" && metric.Type != metricType {
					continue
				}

				key := nsStr + "|" + metric.Name + "|" + string(metric.Type) + "|" + metric.Value.Unit
				if seen[key] {
					continue
				}
				seen[key] = true

				results = append(results, Metric{
					Name:        metric.Name,
					Description: metric.Description,
					Namespace:   metric.Namespace,
					Type:        metric.Type,
					Value:       MetricValue{Unit: metric.Value.Unit},
				})
			}
		}
	}

	slices.SortFunc(results, func(a, b Metric) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(strings.Join(a.Namespace, "/"), strings.Join(b.Namespace, "/"))
	})
	return
}
