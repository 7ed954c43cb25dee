package queue

import (
	"errors"
	"sync"
	"sync/atomic"
)

var ErrClosed = errors.New("queue closed")

type cell[T any] struct {
	seq  atomic.Uint64
	data T
}

// Bounded FIFO ring buffer with power-of-two capacity.
// Safe for any number of producers and consumers.
type Queue[T any] struct {
	Namespace []string
	Size      int
	mask      uint64
	buf       []cell[T]
	head      atomic.Uint64
	tail      atomic.Uint64
	notEmpty  chan struct{} // wakes one waiting consumer
	notFull   chan struct{} // wakes one waiting producer
	done      chan struct{} // closed by Close, wakes everyone
	closeOnce sync.Once
	closed    atomic.Bool
	Metrics   *MetricStorage
}

type MetricStorage struct {
	Depth      atomic.Int64  // Current items in queue
	Puts       atomic.Uint64 // successful puts
	Takes      atomic.Uint64 // successful takes
	FullEvents atomic.Uint64 // put attempts that found the queue full
}
