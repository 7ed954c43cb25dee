package server

import (
	"context"
	"net/http"
	"strings"
	"svclog/internal/metrics"
)

// Handles metric discovery (returns one value-less sample per distinct metric)
func handleDiscovery(baseCtx context.Context, discover Discoverer, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	reqNamespace := namespaceParam(clientRequest)
	reqName := clientRequest.FormValue("name")
	reqDescription := clientRequest.FormValue("description")
	reqUnit := clientRequest.FormValue("unit")

	var reqType metrics.MetricType
	rawType := clientRequest.FormValue("type")
	switch metrics.MetricType(strings.ToLower(rawType)) {
	case metrics.Counter:
		reqType = metrics.Counter
	case metrics.Gauge:
		reqType = metrics.Gauge
	case metrics.Summary:
		reqType = metrics.Summary
	default:
		// Empty is valid
		if rawType != "" {
			serverResponder.WriteHeader(http.StatusBadRequest)
			return
		}
	}

	var results []metrics.JMetric
	for _, rawResult := range discover(reqName, reqDescription, reqNamespace, reqUnit, reqType) {
		results = append(results, rawResult.Convert())
	}

	if len(results) == 0 {
		jResp(baseCtx, serverResponder, Jerror{Msg: "Search returned no results"})
		return
	}
	jResp(baseCtx, serverResponder, results)
}
