package source

import (
	"context"
	"net"
	"svclog/internal/event"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/fastjson"
)

// Called for every event received on an established connection
type EventObserver func(event.ServiceCallEvent)

// Called once when an established connection is lost
type ConnectionObserver func()

// Open connection to the event server
type Client interface {
	Close() error
}

// Establishes connections to the event server
type Connector interface {
	Connect(ctx context.Context, host string, port int, onEvent EventObserver, onDisconnect ConnectionObserver) (Client, error)
}

// Connector reading newline delimited JSON events over TCP
type TCPConnector struct {
	Namespace   []string
	DialTimeout time.Duration
	MaxLineSize int
	parsers     fastjson.ParserPool
	Metrics     *MetricStorage
}

type tcpClient struct {
	conn      net.Conn
	closeOnce sync.Once
	closeErr  error
}

type MetricStorage struct {
	Dials     atomic.Uint64
	Lines     atomic.Uint64
	Decoded   atomic.Uint64
	Malformed atomic.Uint64
	Bytes     atomic.Uint64
}
