package processor

import (
	"context"
	"errors"
	"svclog/internal/event"
	"svclog/internal/filter"
	"sync/atomic"
)

// Wraps the error for an event lost to a recovered panic, processing continues
var ErrEventDropped = errors.New("event dropped")

// Blocking event source (the event queue)
type Inbox interface {
	Take(ctx context.Context) (event.ServiceCallEvent, bool)
}

// Primary destination, a failed write stops processing
type LineWriter interface {
	Write(line string) error
}

// Secondary destination, failures are only reported
type Output interface {
	Name() string
	Write(ctx context.Context, ev event.ServiceCallEvent) error
}

type Instance struct {
	Namespace []string
	inbox     Inbox
	filter    filter.Spec
	delimiter string
	writer    LineWriter
	outputs   []Output
	OnDrop    func(ev event.ServiceCallEvent, err error) // operator notice for dropped events
	Metrics   *MetricStorage
}

type MetricStorage struct {
	Received     atomic.Uint64 // events taken from the inbox
	Accepted     atomic.Uint64 // events that passed the filter
	Filtered     atomic.Uint64 // events rejected by the filter
	Written      atomic.Uint64 // lines written to the log file
	OutputErrors atomic.Uint64 // failed secondary output writes
	Panics       atomic.Uint64
	DroppedTotal atomic.Uint64 // never reset, reported by health
	SumNs        atomic.Uint64 // time spent writing accepted events
	MaxNs        atomic.Uint64
}
