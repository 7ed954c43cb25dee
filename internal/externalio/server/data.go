package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"svclog/internal/metrics"
	"time"

	"github.com/go-chi/chi/v5"
)

// Handles metric search requests for a namespace and time window
func handleData(baseCtx context.Context, search DataSearcher, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	reqNamespace := namespaceParam(clientRequest)
	reqName := clientRequest.FormValue("name")

	reqStartTime, reqEndTime, err := timeWindow(clientRequest, time.Now())
	if err != nil {
		serverResponder.WriteHeader(http.StatusBadRequest)
		return
	}

	var results []metrics.JMetric
	for _, rawResult := range search(reqName, reqNamespace, reqStartTime, reqEndTime) {
		results = append(results, rawResult.Convert())
	}

	if len(results) == 0 {
		jResp(baseCtx, serverResponder, Jerror{Msg: "Search returned no results"})
		return
	}
	jResp(baseCtx, serverResponder, results)
}

// Wildcard path remainder split into namespace components (nil when empty)
func namespaceParam(clientRequest *http.Request) (namespace []string) {
	raw := strings.Trim(chi.URLParam(clientRequest, "*"), "/")
	if raw == "" {
		return
	}
	namespace = strings.Split(raw, "/")
	return
}

// Parses starttime/endtime query values.
// starttime: empty (last minute), negative duration relative to now, or RFC3339Nano.
// endtime: empty or "now", or RFC3339Nano.
func timeWindow(clientRequest *http.Request, now time.Time) (start, end time.Time, err error) {
	rawStartTime := clientRequest.FormValue("starttime")
	switch {
	case rawStartTime == "":
		start = now.Add(-1 * time.Minute)
	case rawStartTime[0] == '+':
		err = fmt.Errorf("start time cannot be in the future")
		return
	case rawStartTime[0] == '-':
		dur, parseErr := time.ParseDuration(rawStartTime)
		if parseErr != nil {
			// Unparsable relative window falls back to the last minute
			dur = -1 * time.Minute
		}
		start = now.Add(dur)
	default:
		start, err = time.Parse(time.RFC3339Nano, rawStartTime)
		if err != nil {
			return
		}
	}

	rawEndTime := clientRequest.FormValue("endtime")
	if rawEndTime == "" || rawEndTime == "now" {
		end = now
		return
	}
	end, err = time.Parse(time.RFC3339Nano, rawEndTime)
	return
}
