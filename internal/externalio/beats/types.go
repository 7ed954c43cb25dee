package beats

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrNotConnected = errors.New("beats server not connected, event dropped")

// Minimal lumberjack client surface used by the module
type sender interface {
	Send(data []interface{}) (int, error)
	Close() error
}

type OutModule struct {
	Namespace     []string
	address       string
	delimiter     string
	dialTimeout   time.Duration
	redialBackoff time.Duration
	dial          func(address string, timeout time.Duration) (sender, error)
	mu            sync.Mutex // guards everything below
	sink          sender     // nil until (re)dialed
	dialing       bool
	retryAfter    time.Time
	closed        bool
	wg            sync.WaitGroup // background redials
	Metrics       *MetricStorage
}

type MetricStorage struct {
	Sent     atomic.Uint64
	Failures atomic.Uint64
	Redials  atomic.Uint64
	Dropped  atomic.Uint64 // events skipped while disconnected
}
