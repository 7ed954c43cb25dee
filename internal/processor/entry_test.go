package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"svclog/internal/event"
	"svclog/internal/filter"
	"svclog/internal/global"
	"svclog/internal/logwriter"
	"svclog/internal/queue"
	"sync"
	"testing"
	"time"
)

type recordingOutput struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (out *recordingOutput) Name() string { return "recording" }

func (out *recordingOutput) Write(ctx context.Context, ev event.ServiceCallEvent) error {
	out.mu.Lock()
	defer out.mu.Unlock()
	out.events = append(out.events, ev.Service)
	return out.err
}

type failingWriter struct {
	calls int
}

func (w *failingWriter) Write(line string) error {
	w.calls++
	return errors.New("disk full")
}

type panickingWriter struct {
	lines []string
}

func (w *panickingWriter) Write(line string) error {
	if strings.HasPrefix(line, "boom") {
		panic("writer exploded")
	}
	w.lines = append(w.lines, line)
	return nil
}

func newQueue(t *testing.T) *queue.Queue[event.ServiceCallEvent] {
	t.Helper()
	q, err := queue.New[event.ServiceCallEvent]([]string{global.NSTest}, 64)
	if err != nil {
		t.Fatalf("unexpected queue error: %v", err)
	}
	return q
}

func TestRun_PreservesOrderThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statistics.log")
	writer, err := logwriter.New(path)
	if err != nil {
		t.Fatalf("unexpected writer error: %v", err)
	}
	spec, err := filter.Compile(`svc\..*`, `svc\.internal`)
	if err != nil {
		t.Fatalf("unexpected filter error: %v", err)
	}

	inbox := newQueue(t)
	services := []string{"svc.a", "svc.internal", "other", "svc.b", "svc.c", "svc.internal", "svc.d"}
	for i, name := range services {
		inbox.Put(context.Background(), event.ServiceCallEvent{Service: name, PID: int64(i)})
	}

	output := &recordingOutput{}
	proc := New([]string{global.NSTest}, inbox, spec, "|", writer, output, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- proc.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for proc.Metrics.Received.Load() < uint64(len(services)) {
		if time.Now().After(deadline) {
			t.Fatalf("processor did not consume events")
		}
		time.Sleep(2 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	writer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	want := []string{"svc.a", "svc.b", "svc.c", "svc.d"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), lines)
	}
	for i, line := range lines {
		fields := strings.Split(line, "|")
		if len(fields) != event.FieldCount || fields[0] != want[i] {
			t.Fatalf("line %d: expected service %s, got %q", i, want[i], line)
		}
	}

	if strings.Join(output.events, ",") != strings.Join(want, ",") {
		t.Fatalf("secondary output got %v", output.events)
	}
	if proc.Metrics.Filtered.Load() != 3 || proc.Metrics.Written.Load() != 4 {
		t.Fatalf("unexpected counters filtered=%d written=%d", proc.Metrics.Filtered.Load(), proc.Metrics.Written.Load())
	}
}

func TestRun_WriteErrorIsFatal(t *testing.T) {
	inbox := newQueue(t)
	inbox.Put(context.Background(), event.ServiceCallEvent{Service: "a"})
	inbox.Put(context.Background(), event.ServiceCallEvent{Service: "b"})

	writer := &failingWriter{}
	proc := New([]string{global.NSTest}, inbox, filter.Spec{}, "|", writer)

	err := proc.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected write error, got %v", err)
	}
	if writer.calls != 1 {
		t.Fatalf("expected processing to stop after first failure, got %d writes", writer.calls)
	}
}

func TestRun_OutputErrorIsNotFatal(t *testing.T) {
	inbox := newQueue(t)
	inbox.Put(context.Background(), event.ServiceCallEvent{Service: "a"})
	inbox.Put(context.Background(), event.ServiceCallEvent{Service: "b"})
	inbox.Close()

	output := &recordingOutput{err: errors.New("unreachable")}
	writer := &panickingWriter{}
	proc := New([]string{global.NSTest}, inbox, filter.Spec{}, "|", writer, output)

	// Closed queue hands out nothing, so feed directly
	for _, name := range []string{"a", "b"} {
		if err := proc.process(context.Background(), event.ServiceCallEvent{Service: name}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(writer.lines) != 2 || proc.Metrics.OutputErrors.Load() != 2 {
		t.Fatalf("expected both events written despite output errors, got %d lines %d errors",
			len(writer.lines), proc.Metrics.OutputErrors.Load())
	}
}

func TestRun_RecoversPanic(t *testing.T) {
	inbox := newQueue(t)
	inbox.Put(context.Background(), event.ServiceCallEvent{Service: "boom", PID: 9})
	inbox.Put(context.Background(), event.ServiceCallEvent{Service: "fine"})

	writer := &panickingWriter{}
	proc := New([]string{global.NSTest}, inbox, filter.Spec{}, "|", writer)

	var dropMu sync.Mutex
	var dropped []error
	proc.OnDrop = func(ev event.ServiceCallEvent, err error) {
		dropMu.Lock()
		defer dropMu.Unlock()
		dropped = append(dropped, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- proc.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for proc.Metrics.Written.Load() < 1 {
		if time.Now().After(deadline) {
			t.Fatalf("processor stopped after panic")
		}
		time.Sleep(2 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("dropped event stopped the loop: %v", err)
	}

	if proc.Metrics.Panics.Load() != 1 || len(writer.lines) != 1 {
		t.Fatalf("expected one panic and one line, got %d panics %v", proc.Metrics.Panics.Load(), writer.lines)
	}
	if proc.Metrics.DroppedTotal.Load() != 1 {
		t.Fatalf("expected one dropped event, got %d", proc.Metrics.DroppedTotal.Load())
	}

	dropMu.Lock()
	defer dropMu.Unlock()
	if len(dropped) != 1 || !errors.Is(dropped[0], ErrEventDropped) {
		t.Fatalf("expected one drop notice, got %v", dropped)
	}
	if !strings.Contains(dropped[0].Error(), `service "boom" pid 9: writer exploded`) {
		t.Fatalf("drop error does not identify the event: %v", dropped[0])
	}
}

func TestProcess_PanicReturnsDropError(t *testing.T) {
	proc := New([]string{global.NSTest}, newQueue(t), filter.Spec{}, "|", &panickingWriter{})

	err := proc.process(context.Background(), event.ServiceCallEvent{Service: "boom"})
	if !errors.Is(err, ErrEventDropped) {
		t.Fatalf("expected ErrEventDropped, got %v", err)
	}
}

func TestRun_StopsWhenInboxCloses(t *testing.T) {
	inbox := newQueue(t)
	proc := New([]string{global.NSTest}, inbox, filter.Spec{}, "|", &panickingWriter{})

	done := make(chan error, 1)
	go func() { done <- proc.Run(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	inbox.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("processor did not stop after queue close")
	}
}
