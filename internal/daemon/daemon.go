// Daemon for continuous reception of service call events, filtering and delivery to the log file
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"svclog/internal/config"
	"svclog/internal/event"
	"svclog/internal/externalio/beats"
	"svclog/internal/externalio/server"
	"svclog/internal/externalio/sqlite"
	"svclog/internal/filter"
	"svclog/internal/global"
	"svclog/internal/logctx"
	"svclog/internal/logwriter"
	"svclog/internal/metrics"
	"svclog/internal/processor"
	"svclog/internal/queue"
	"svclog/internal/source"
	"svclog/internal/supervisor"
	"time"
	"unsafe"

	"github.com/google/uuid"
)

// Create new daemon instance
func NewDaemon(cfg config.Config) (new *Daemon) {
	ctx, cancel := context.WithCancel(context.Background())
	new = &Daemon{
		Namespace: []string{global.NSDaemon},
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
		SessionID: uuid.New(),
		procDone:  make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	return
}

// Starts the pipeline in the background. A startup error releases anything already opened.
func (daemon *Daemon) Start(globalCtx context.Context) (err error) {
	daemon.ctx = logctx.Inherit(daemon.ctx, globalCtx)
	daemon.ctx = logctx.AppendCtxTag(daemon.ctx, global.NSDaemon)
	daemon.startedAt = time.Now()

	defer func() {
		if err != nil {
			daemon.Shutdown()
		}
	}()

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Starting session %s...\n", daemon.SessionID)

	err = daemon.cfg.Validate()
	if err != nil {
		return
	}
	spec, err := filter.Compile(daemon.cfg.FilterInclusive, daemon.cfg.FilterExclusive)
	if err != nil {
		return
	}
	if daemon.Output == nil {
		daemon.Output = os.Stdout
	}
	if daemon.Connector == nil {
		daemon.Connector = source.NewTCPConnector(daemon.Namespace)
	}

	// Output first, nothing is received without somewhere to put it
	daemon.writer, err = logwriter.New(daemon.cfg.File)
	if err != nil {
		err = fmt.Errorf("failed opening log file: %w", err)
		return
	}

	daemon.beats, err = beats.NewOutput(daemon.Namespace, daemon.cfg.Outputs.BeatsAddress, daemon.cfg.Delimiter)
	if err != nil {
		err = fmt.Errorf("failed starting beats output: %w", err)
		return
	}
	daemon.sqlite, err = sqlite.NewOutput(daemon.Namespace, daemon.cfg.Outputs.SQLitePath)
	if err != nil {
		err = fmt.Errorf("failed starting sqlite output: %w", err)
		return
	}

	capacity := queue.Capacity(daemon.cfg.QueueCapacity, int(unsafe.Sizeof(event.ServiceCallEvent{})))
	daemon.queue, err = queue.New[event.ServiceCallEvent](daemon.Namespace, capacity)
	if err != nil {
		err = fmt.Errorf("failed creating event queue: %w", err)
		return
	}
	if capacity != daemon.cfg.QueueCapacity {
		logctx.LogEvent(daemon.ctx, global.VerbosityProgress, global.InfoLog,
			"Queue capacity adjusted from %d to %d\n", daemon.cfg.QueueCapacity, capacity)
	}

	var outputs []processor.Output
	if daemon.beats != nil {
		outputs = append(outputs, daemon.beats)
	}
	if daemon.sqlite != nil {
		outputs = append(outputs, daemon.sqlite)
	}
	daemon.processor = processor.New(daemon.Namespace, daemon.queue, spec, daemon.cfg.Delimiter, daemon.writer, outputs...)

	notices := supervisor.NewNotices(daemon.Output)
	daemon.processor.OnDrop = func(ev event.ServiceCallEvent, err error) {
		notices.Printf("Dropped event: %v", err)
	}
	daemon.supervisor, err = supervisor.New(daemon.Namespace, supervisor.Config{
		URL:       daemon.cfg.EventServerURL,
		Connector: daemon.Connector,
		OnEvent:   daemon.enqueue,
		Backoff:   daemon.cfg.ReconnectBackoff,
		Notices:   notices,
	})
	if err != nil {
		err = fmt.Errorf("failed creating connection supervisor: %w", err)
		return
	}

	err = daemon.cfg.PrintParams(daemon.Output)
	if err != nil {
		err = fmt.Errorf("failed printing parameters: %w", err)
		return
	}

	// Consumer before producer
	var procCtx context.Context
	procCtx, daemon.procCancel = context.WithCancel(daemon.ctx)
	daemon.procStarted = true
	go daemon.runProcessor(procCtx)

	daemon.supervisor.Start(daemon.ctx)

	if daemon.cfg.Metrics.Enabled {
		daemon.startMetrics()
	}

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Startup complete.\n")
	return
}

// Transport callback, blocks while the queue is full
func (daemon *Daemon) enqueue(ev event.ServiceCallEvent) {
	err := daemon.queue.Put(daemon.ctx, ev)
	if err != nil {
		logctx.LogEvent(daemon.ctx, global.VerbosityData, global.WarnLog,
			"Dropped event for service %q: %v\n", ev.Service, err)
	}
}

func (daemon *Daemon) runProcessor(ctx context.Context) {
	err := daemon.processor.Run(ctx)
	if err != nil {
		daemon.errMu.Lock()
		daemon.fatalErr = err
		daemon.errMu.Unlock()
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.ErrorLog, "Processing stopped: %v\n", err)
	}
	close(daemon.procDone)

	if err != nil {
		daemon.Shutdown()
	}
}

func (daemon *Daemon) startMetrics() {
	collectors := []metrics.Collector{daemon.queue, daemon.writer, daemon.supervisor, daemon.processor}
	if collector, ok := daemon.Connector.(metrics.Collector); ok {
		collectors = append(collectors, collector)
	}
	if daemon.beats != nil {
		collectors = append(collectors, daemon.beats)
	}
	if daemon.sqlite != nil {
		collectors = append(collectors, daemon.sqlite)
	}

	daemon.Gatherer = metrics.NewGatherer(daemon.cfg.Metrics.Interval, daemon.cfg.Metrics.MaxAge, collectors...)
	workerCtx := daemon.ctx
	daemon.wg.Add(1)
	go func() {
		defer daemon.wg.Done()
		daemon.Gatherer.Run(workerCtx)
	}()

	// Copy so the server tags do not leak into daemon logs
	serverCtx := logctx.AppendCtxTag(daemon.ctx, global.NSMetric)
	daemon.MetricServer = server.SetupListener(serverCtx,
		daemon.cfg.Metrics.Port,
		daemon.Gatherer.Registry.Search,
		daemon.Gatherer.Registry.Discover,
		daemon.Health)
	daemon.wg.Add(1)
	go func() {
		defer daemon.wg.Done()
		server.Start(serverCtx, daemon.MetricServer)
	}()
}

// Current liveness snapshot
func (daemon *Daemon) Health() (health server.Health) {
	health = server.Health{
		Status:    "ok",
		Uptime:    time.Since(daemon.startedAt).Round(time.Second).String(),
		SessionID: daemon.SessionID.String(),
	}
	if daemon.writer != nil {
		health.LogFile = daemon.writer.Path()
	}
	if daemon.processor != nil {
		health.DroppedEvents = daemon.processor.Metrics.DroppedTotal.Load()
	}
	if daemon.supervisor != nil {
		health.EventServer = daemon.supervisor.URL()
		state := daemon.supervisor.State()
		health.State = state.String()
		if state != supervisor.Connected {
			health.Status = "degraded"
		}
	}
	if daemon.queue != nil {
		health.QueueDepth = daemon.queue.Len()
		health.QueueCapacity = daemon.queue.Size
	}
	if daemon.Err() != nil {
		health.Status = "failed"
	}
	return
}

// Reopens the log file (SIGHUP)
func (daemon *Daemon) Rotate() (err error) {
	if daemon.writer == nil {
		err = logwriter.ErrClosed
		return
	}
	err = daemon.writer.Rotate()
	return
}

// Fatal processing error, if any
func (daemon *Daemon) Err() (err error) {
	daemon.errMu.Lock()
	defer daemon.errMu.Unlock()
	err = daemon.fatalErr
	return
}

// Blocks until shutdown completes. Returns the fatal processing error, nil for a requested stop.
func (daemon *Daemon) Run() (err error) {
	<-daemon.stopped
	err = daemon.Err()
	return
}

// Ordered shutdown, safe to call more than once and from any goroutine
func (daemon *Daemon) Shutdown() {
	daemon.shutdownOnce.Do(daemon.shutdown)
}

func (daemon *Daemon) shutdown() {
	defer close(daemon.stopped)

	ctx := daemon.ctx
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "Daemon shutdown started...\n")

	// Stop receiving: retry timer and live connection
	if daemon.supervisor != nil {
		daemon.supervisor.Stop()
	}

	// Release anything blocked on the queue, then the consumer
	if daemon.queue != nil {
		daemon.queue.Close()
	}
	if daemon.procCancel != nil {
		daemon.procCancel()
	}
	if daemon.procStarted {
		select {
		case <-daemon.procDone:
		case <-time.After(global.ShutdownTimeout):
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"Processing loop did not stop within %s\n", global.ShutdownTimeout)
		}
	}

	if daemon.writer != nil {
		err := daemon.writer.Close()
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed closing log file: %v\n", err)
		}
	}
	if daemon.beats != nil {
		err := daemon.beats.Shutdown()
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Beats output did not close cleanly: %v\n", err)
		}
	}
	if daemon.sqlite != nil {
		err := daemon.sqlite.Shutdown()
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "SQLite output did not close cleanly: %v\n", err)
		}
	}

	if daemon.MetricServer != nil {
		serverCtx, cancel := context.WithTimeout(context.Background(), global.ShutdownTimeout)
		err := daemon.MetricServer.Shutdown(serverCtx)
		cancel()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"metric HTTP server did not shutdown gracefully: %v\n", err)
		}
	}

	daemon.cancel()

	// Wait for all workers to finish (with timeout)
	done := make(chan struct{})
	go func() {
		daemon.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
			"Daemon shutdown completed successfully\n")
	case <-time.After(global.ShutdownTimeout):
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"Timeout reached while waiting for workers to stop\n")
	}
}
