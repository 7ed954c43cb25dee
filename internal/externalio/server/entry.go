// HTTP server exposing health and metric queries to other programs on the local system only
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"svclog/internal/global"
	"svclog/internal/logctx"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Sets up the HTTP listener configuration for health and metric queries
func SetupListener(ctx context.Context, port int, search DataSearcher, discover Discoverer, health HealthReporter) (server *http.Server) {
	ctx = logctx.AppendCtxTag(ctx, global.NSMetricSrv)

	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(logRequests(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/", func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		jResp(ctx, serverResponder, map[string]string{
			"health":   global.HealthPath,
			"data":     global.DataPath + "/{namespace}?name=&starttime=&endtime=",
			"discover": global.DiscoveryPath + "/{namespace}?name=&description=&unit=&type=",
		})
	})

	router.Get(global.HealthPath, func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		jResp(ctx, serverResponder, health())
	})

	dataHandler := func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		handleData(ctx, search, serverResponder, clientRequest)
	}
	router.Get(global.DataPath, dataHandler)
	router.Get(global.DataPath+"/*", dataHandler)

	discoveryHandler := func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		handleDiscovery(ctx, discover, serverResponder, clientRequest)
	}
	router.Get(global.DiscoveryPath, discoveryHandler)
	router.Get(global.DiscoveryPath+"/*", discoveryHandler)

	server = &http.Server{
		Addr:         global.HTTPListenAddr + ":" + strconv.Itoa(port),
		Handler:      router,
		ReadTimeout:  global.HTTPReadTimeout,
		WriteTimeout: global.HTTPWriteTimeout,
		IdleTimeout:  global.HTTPIdleTimeout,
		ErrorLog:     log.New(httpLogWriter{ctx: ctx}, "", 0),
	}
	return
}

// Starts the HTTP server and serves until it is shut down
func Start(ctx context.Context, server *http.Server) {
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"Status server starting on http://%s/\n", server.Addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"Status server failed to start: %v\n", err)
	}
}

// Tags every request with a fresh id
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		id := uuid.New().String()
		serverResponder.Header().Set("X-Request-ID", id)
		next.ServeHTTP(serverResponder, clientRequest.WithContext(
			context.WithValue(clientRequest.Context(), requestIDKey{}, id)))
	})
}

func logRequests(ctx context.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
			start := time.Now()
			wrapped := middleware.NewWrapResponseWriter(serverResponder, clientRequest.ProtoMajor)
			next.ServeHTTP(wrapped, clientRequest)

			id, _ := clientRequest.Context().Value(requestIDKey{}).(string)
			logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
				"%s %s -> %d (%v, request %s)\n",
				clientRequest.Method, clientRequest.URL.Path, wrapped.Status(), time.Since(start), id)
		})
	}
}

// Encodes JSON and sends as response body
func jResp(ctx context.Context, serverResponder http.ResponseWriter, content any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(content); err != nil {
		serverResponder.WriteHeader(http.StatusInternalServerError)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"Failed marshaling response: %v\n", err)
		return
	}
	serverResponder.Header().Set("Content-Type", "application/json")
	serverResponder.WriteHeader(http.StatusOK)
	serverResponder.Write(buf.Bytes())
}

// Logs HTTP server errors to the program logger
func (logWriter httpLogWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	if n == 0 {
		return
	}
	logctx.LogEvent(logWriter.ctx, global.VerbosityStandard, global.ErrorLog,
		"%s\n", strings.TrimSpace(string(p)))
	return
}
