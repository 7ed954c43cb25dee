package daemon

import (
	"context"
	"io"
	"net/http"
	"svclog/internal/config"
	"svclog/internal/event"
	"svclog/internal/externalio/beats"
	"svclog/internal/externalio/sqlite"
	"svclog/internal/logwriter"
	"svclog/internal/metrics"
	"svclog/internal/processor"
	"svclog/internal/queue"
	"svclog/internal/source"
	"svclog/internal/supervisor"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Daemon struct {
	Namespace []string
	cfg       config.Config
	ctx       context.Context
	cancel    context.CancelFunc
	SessionID uuid.UUID
	startedAt time.Time

	// Replaceable before Start
	Connector source.Connector // defaults to TCP JSON lines
	Output    io.Writer        // parameter printout and notices, defaults to stdout

	queue      *queue.Queue[event.ServiceCallEvent]
	writer     *logwriter.Writer
	supervisor *supervisor.Supervisor
	processor  *processor.Instance
	beats      *beats.OutModule
	sqlite     *sqlite.OutModule

	Gatherer     *metrics.Gatherer
	MetricServer *http.Server

	procCancel   context.CancelFunc
	procStarted  bool
	procDone     chan struct{}
	stopped      chan struct{}
	shutdownOnce sync.Once
	errMu        sync.Mutex
	fatalErr     error
	wg           sync.WaitGroup
}
