package supervisor

import (
	"context"
	"errors"
	"io"
	"svclog/internal/source"
	"sync"
	"sync/atomic"
	"time"
)

var ErrStopped = errors.New("supervisor stopped")
var ErrNoClient = errors.New("connector returned no client")

type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
	Stopped
)

// Serialised line sink for operator facing status notices
type Notices struct {
	mu  sync.Mutex
	out io.Writer
}

type Config struct {
	URL       string               // event server url, host and port required
	Connector source.Connector     // transport used for every attempt
	OnEvent   source.EventObserver // receives events of every connection
	Backoff   time.Duration        // fixed wait between attempts
	Notices   *Notices
}

// One-shot outcome of a single connection attempt
type attempt struct {
	done      chan struct{}
	connected bool
	completed bool
}

// Keeps a logical connection to the event server alive across disconnects
type Supervisor struct {
	Namespace []string
	url       string
	host      string
	port      int
	connector source.Connector
	onEvent   source.EventObserver
	backoff   time.Duration
	notices   *Notices

	state     atomic.Int32
	mu        sync.Mutex // guards client, current and cancel
	client    source.Client
	current   *attempt
	cancel    context.CancelFunc
	stopCh    chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup

	Metrics *MetricStorage
}

type MetricStorage struct {
	Attempts    atomic.Uint64
	Failures    atomic.Uint64
	Disconnects atomic.Uint64
	Events      atomic.Uint64
}
