package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"svclog/internal/global"
	"svclog/internal/metrics"
	"testing"
	"time"
)

func sampleMetrics() []metrics.Metric {
	return []metrics.Metric{{
		Name:      "written",
		Namespace: []string{"Daemon", "Processor"},
		Type:      metrics.Counter,
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Value:     metrics.MetricValue{Raw: uint64(4), Unit: "count", Interval: time.Minute},
	}}
}

func TestRoutes(t *testing.T) {
	var calls []searchCall
	server := SetupListener(context.Background(), global.DefaultMetricPort,
		mockDataSearcher(sampleMetrics(), &calls), mockDiscoverer(sampleMetrics(), &calls), mockHealth)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantNS     []string
	}{
		{"index", "/", http.StatusOK, nil},
		{"health", global.HealthPath, http.StatusOK, nil},
		{"data root", global.DataPath + "?name=written", http.StatusOK, nil},
		{"data namespace", global.DataPath + "/Daemon/Processor?name=written", http.StatusOK, []string{"Daemon", "Processor"}},
		{"data bad start", global.DataPath + "/Daemon?starttime=badtime", http.StatusBadRequest, nil},
		{"data future start", global.DataPath + "?starttime=+15m", http.StatusBadRequest, nil},
		{"data bad end", global.DataPath + "?endtime=+2y", http.StatusBadRequest, nil},
		{"discover namespace", global.DiscoveryPath + "/Daemon", http.StatusOK, []string{"Daemon"}},
		{"discover bad type", global.DiscoveryPath + "?type=histogram", http.StatusBadRequest, nil},
		{"unknown path", "/nope", http.StatusNotFound, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = nil
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			server.Handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Fatalf("expected request id header")
			}
			if tt.wantNS != nil {
				if len(calls) != 1 || !reflect.DeepEqual(calls[0].namespace, tt.wantNS) {
					t.Fatalf("expected namespace %v, got calls %+v", tt.wantNS, calls)
				}
			}
		})
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	server := SetupListener(context.Background(), global.DefaultMetricPort,
		mockDataSearcher(nil, nil), mockDiscoverer(nil, nil), mockHealth)

	req := httptest.NewRequest(http.MethodPost, global.HealthPath, nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHealthBody(t *testing.T) {
	server := SetupListener(context.Background(), global.DefaultMetricPort,
		mockDataSearcher(nil, nil), mockDiscoverer(nil, nil), mockHealth)

	req := httptest.NewRequest(http.MethodGet, global.HealthPath, nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	var got Health
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got != mockHealth() {
		t.Fatalf("expected %+v, got %+v", mockHealth(), got)
	}
}

func TestDataBody(t *testing.T) {
	server := SetupListener(context.Background(), global.DefaultMetricPort,
		mockDataSearcher(sampleMetrics(), nil), mockDiscoverer(nil, nil), mockHealth)

	req := httptest.NewRequest(http.MethodGet, global.DataPath+"/Daemon", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	var got []metrics.JMetric
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 1 || got[0].Namespace != "Daemon/Processor" || got[0].Value.Raw != "4" {
		t.Fatalf("unexpected results %+v", got)
	}
}

func TestDataNoResults(t *testing.T) {
	server := SetupListener(context.Background(), global.DefaultMetricPort,
		mockDataSearcher(nil, nil), mockDiscoverer(nil, nil), mockHealth)

	req := httptest.NewRequest(http.MethodGet, global.DataPath, nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	var got Jerror
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Msg == "" {
		t.Fatalf("expected error message for empty results")
	}
}
