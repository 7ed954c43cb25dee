// Bounded blocking FIFO between the network reader and the processing loop
package queue

import (
	"context"
	"fmt"
	"runtime"
	"svclog/internal/global"
)

// Creates a new queue. Capacity must be a power of two and at least 2.
func New[T any](namespace []string, capacity int) (new *Queue[T], err error) {
	if capacity < global.MinimumQueueCapacity {
		err = fmt.Errorf("capacity must be greater than or equal to %d", global.MinimumQueueCapacity)
		return
	}
	if capacity&(capacity-1) != 0 {
		err = fmt.Errorf("capacity must be a power of two")
		return
	}

	buf := make([]cell[T], capacity)
	for i := range buf {
		buf[i].seq.Store(uint64(i))
	}

	new = &Queue[T]{
		Namespace: append(append([]string{}, namespace...), global.NSQueue),
		Size:      capacity,
		mask:      uint64(capacity - 1),
		buf:       buf,
		notEmpty:  make(chan struct{}, 1),
		notFull:   make(chan struct{}, 1),
		done:      make(chan struct{}),
		Metrics:   &MetricStorage{},
	}
	return
}

// Attempts to append an element without blocking (false = full or closed)
func (queue *Queue[T]) TryPut(value T) (success bool) {
	if queue.closed.Load() {
		return
	}

	var pos uint64
	var slot *cell[T]
	for {
		pos = queue.tail.Load()
		slot = &queue.buf[pos&queue.mask]
		seq := slot.seq.Load()

		if seq == pos {
			if queue.tail.CompareAndSwap(pos, pos+1) {
				break
			}
		} else if seq < pos {
			queue.Metrics.FullEvents.Add(1)
			return
		} else {
			runtime.Gosched() // another producer ahead, retry
		}
	}

	slot.data = value
	slot.seq.Store(pos + 1)
	queue.Metrics.Depth.Add(1)
	queue.Metrics.Puts.Add(1)

	signal(queue.notEmpty)
	success = true
	return
}

// Appends an element, blocking while the queue is full.
// Returns ErrClosed once the queue is closed, or the context error.
func (queue *Queue[T]) Put(ctx context.Context, value T) (err error) {
	for {
		if queue.closed.Load() {
			err = ErrClosed
			return
		}
		if queue.TryPut(value) {
			// Pass the wakeup on if there is still room
			if queue.Metrics.Depth.Load() < int64(queue.Size) {
				signal(queue.notFull)
			}
			return
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		case <-queue.done:
			err = ErrClosed
			return
		case <-queue.notFull:
		}
	}
}

// Removes the oldest element without blocking (false = empty or closed)
func (queue *Queue[T]) TryTake() (out T, success bool) {
	if queue.closed.Load() {
		return
	}

	var pos uint64
	var slot *cell[T]
	for {
		pos = queue.head.Load()
		slot = &queue.buf[pos&queue.mask]
		seq := slot.seq.Load()

		if seq == pos+1 {
			if queue.head.CompareAndSwap(pos, pos+1) {
				break
			}
		} else if seq < pos+1 {
			return // empty
		} else {
			runtime.Gosched() // another consumer ahead, retry
		}
	}

	out = slot.data
	var zero T
	slot.data = zero
	slot.seq.Store(pos + queue.mask + 1)
	queue.Metrics.Depth.Add(-1)
	queue.Metrics.Takes.Add(1)

	signal(queue.notFull)
	success = true
	return
}

// Removes the oldest element, blocking until one is available.
// Returns false when ctx is cancelled or the queue is closed.
// Items still queued at close are not handed out.
func (queue *Queue[T]) Take(ctx context.Context) (out T, success bool) {
	for {
		out, success = queue.TryTake()
		if success {
			if queue.Metrics.Depth.Load() > 0 {
				signal(queue.notEmpty)
			}
			return
		}
		if queue.closed.Load() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-queue.done:
			return
		case <-queue.notEmpty:
		}
	}
}

// Closes the queue and wakes all blocked callers. Safe to call more than once.
func (queue *Queue[T]) Close() {
	queue.closeOnce.Do(func() {
		queue.closed.Store(true)
		close(queue.done)
	})
}

// Current number of queued items
func (queue *Queue[T]) Len() (depth int) {
	depth = int(queue.Metrics.Depth.Load())
	if depth < 0 {
		depth = 0
	}
	return
}

// Non-blocking single slot wakeup
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
