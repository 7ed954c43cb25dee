package logwriter

import (
	"bufio"
	"errors"
	"os"
	"sync"
	"sync/atomic"
)

var ErrClosed = errors.New("log writer closed")

// Append-only writer for the statistics log.
// Writes and rotation are serialised by one mutex, so a line is never split across files.
type Writer struct {
	Namespace []string
	path      string
	mu        sync.Mutex
	file      *os.File
	buf       *bufio.Writer
	closed    bool
	broken    error // set when a rotation could not reopen the file
	Metrics   *MetricStorage
}

type MetricStorage struct {
	Lines     atomic.Uint64
	Bytes     atomic.Uint64
	Rotations atomic.Uint64
	Failures  atomic.Uint64
}
