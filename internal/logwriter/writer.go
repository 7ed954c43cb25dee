// Log destination file with rotate-under-lock support
package logwriter

import (
	"bufio"
	"fmt"
	"os"
	"svclog/internal/global"
)

// Opens (creating if absent) the file at path for appending. Existing content is kept.
func New(path string) (new *Writer, err error) {
	if path == "" {
		err = fmt.Errorf("log file path is empty")
		return
	}

	new = &Writer{
		Namespace: []string{global.NSDaemon, global.NSWriter},
		path:      path,
		Metrics:   &MetricStorage{},
	}
	err = new.open()
	if err != nil {
		new = nil
		return
	}
	return
}

// Caller must hold the lock (or be the constructor)
func (writer *Writer) open() (err error) {
	file, err := os.OpenFile(writer.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, global.DefaultLogFileMode)
	if err != nil {
		err = fmt.Errorf("failed to open log file %q: %w", writer.path, err)
		return
	}
	writer.file = file
	writer.buf = bufio.NewWriter(file)
	return
}

// Path the writer appends to
func (writer *Writer) Path() (path string) {
	path = writer.path
	return
}

// Appends one line (newline added) and flushes it before returning
func (writer *Writer) Write(line string) (err error) {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.closed {
		err = ErrClosed
		return
	}
	if writer.broken != nil {
		err = writer.broken
		return
	}

	n, err := writer.buf.WriteString(line)
	if err == nil {
		err = writer.buf.WriteByte('\n')
	}
	if err == nil {
		err = writer.buf.Flush()
	}
	if err != nil {
		writer.Metrics.Failures.Add(1)
		err = fmt.Errorf("failed writing to log file %q: %w", writer.path, err)
		return
	}

	writer.Metrics.Lines.Add(1)
	writer.Metrics.Bytes.Add(uint64(n + 1))
	return
}

// Closes and reopens the file at the same path, so an external tool that renamed
// the old file leaves us writing to a fresh one. Held under the write lock.
func (writer *Writer) Rotate() (err error) {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.closed {
		err = ErrClosed
		return
	}

	if writer.file != nil {
		flushErr := writer.buf.Flush()
		closeErr := writer.file.Close()
		writer.file = nil
		writer.buf = nil
		if flushErr != nil {
			err = fmt.Errorf("failed flushing log file before rotation: %w", flushErr)
		} else if closeErr != nil {
			err = fmt.Errorf("failed closing log file for rotation: %w", closeErr)
		}
	}

	openErr := writer.open()
	if openErr != nil {
		writer.broken = openErr
		writer.Metrics.Failures.Add(1)
		err = openErr
		return
	}

	// Reopened, a previous failed rotation is healed
	writer.broken = nil
	writer.Metrics.Rotations.Add(1)
	return
}

// Flushes and closes the file. Safe to call more than once.
func (writer *Writer) Close() (err error) {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.closed {
		return
	}
	writer.closed = true

	if writer.file == nil {
		return
	}
	err = writer.buf.Flush()
	closeErr := writer.file.Close()
	if err == nil {
		err = closeErr
	}
	writer.file = nil
	writer.buf = nil
	return
}
