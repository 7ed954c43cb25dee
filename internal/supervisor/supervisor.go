// Connection lifecycle for the event server: fixed backoff retries forever until stopped
package supervisor

import (
	"context"
	"fmt"
	"runtime/debug"
	"svclog/internal/event"
	"svclog/internal/global"
	"svclog/internal/logctx"
	"svclog/internal/source"
	"sync"
	"time"
)

// Creates a supervisor. Nothing is dialed until Start.
func New(namespace []string, cfg Config) (new *Supervisor, err error) {
	host, port, err := source.ParseEndpoint(cfg.URL)
	if err != nil {
		return
	}
	if cfg.Connector == nil {
		err = fmt.Errorf("no connector supplied")
		return
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = global.DefaultReconnectBackoff
	}
	if cfg.Notices == nil {
		cfg.Notices = NewNotices(nil)
	}

	new = &Supervisor{
		Namespace: append(append([]string{}, namespace...), global.NSSupervisor),
		url:       cfg.URL,
		host:      host,
		port:      port,
		connector: cfg.Connector,
		onEvent:   cfg.OnEvent,
		backoff:   cfg.Backoff,
		notices:   cfg.Notices,
		current:   newAttempt(),
		stopCh:    make(chan struct{}),
		Metrics:   &MetricStorage{},
	}
	new.state.Store(int32(Disconnected))
	return
}

func newAttempt() (a *attempt) {
	a = &attempt{done: make(chan struct{})}
	return
}

// Launches the retry loop. The first attempt is made immediately.
func (supervisor *Supervisor) Start(ctx context.Context) {
	supervisor.startOnce.Do(func() {
		supervisor.mu.Lock()
		defer supervisor.mu.Unlock()

		if supervisor.State() == Stopped {
			return
		}

		ctx = logctx.AppendCtxTag(ctx, global.NSSupervisor)
		ctx, supervisor.cancel = context.WithCancel(ctx)

		supervisor.wg.Add(1)
		go supervisor.run(ctx)
	})
}

// Stops retrying, cancels any pending wait or dial and closes the open connection.
// Blocks until the retry loop exits. Safe to call more than once.
func (supervisor *Supervisor) Stop() {
	supervisor.stopOnce.Do(func() {
		supervisor.state.Store(int32(Stopped))
		close(supervisor.stopCh)

		supervisor.mu.Lock()
		client := supervisor.client
		supervisor.client = nil
		cancel := supervisor.cancel
		supervisor.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if client != nil {
			client.Close()
		}
	})
	supervisor.wg.Wait()
}

// Current connection state
func (supervisor *Supervisor) State() (state State) {
	state = State(supervisor.state.Load())
	return
}

// Endpoint this supervisor connects to
func (supervisor *Supervisor) URL() (url string) {
	url = supervisor.url
	return
}

// Waits for the outcome of the current connection attempt.
// While connected this returns true immediately.
func (supervisor *Supervisor) WaitForAttempt(ctx context.Context) (connected bool, err error) {
	supervisor.mu.Lock()
	current := supervisor.current
	supervisor.mu.Unlock()

	select {
	case <-current.done:
		connected = current.connected
	case <-ctx.Done():
		err = ctx.Err()
	case <-supervisor.stopCh:
		err = ErrStopped
	}
	return
}

// Waits until an attempt succeeds
func (supervisor *Supervisor) WaitForConnection(ctx context.Context) (err error) {
	for {
		var connected bool
		connected, err = supervisor.WaitForAttempt(ctx)
		if err != nil || connected {
			return
		}
	}
}

// Completes the current attempt. Caller must hold the lock.
func (supervisor *Supervisor) complete(connected bool) {
	if supervisor.current.completed {
		return
	}
	supervisor.current.connected = connected
	supervisor.current.completed = true
	close(supervisor.current.done)
}

// Moves state unless stopped (stopped is terminal)
func (supervisor *Supervisor) setState(state State) {
	for {
		old := supervisor.state.Load()
		if State(old) == Stopped {
			return
		}
		if supervisor.state.CompareAndSwap(old, int32(state)) {
			return
		}
	}
}

func (supervisor *Supervisor) stopping() (stopped bool) {
	select {
	case <-supervisor.stopCh:
		stopped = true
	default:
	}
	return
}

// Retry loop
func (supervisor *Supervisor) run(ctx context.Context) {
	defer supervisor.wg.Done()
	defer func() {
		if fatalError := recover(); fatalError != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in connection supervisor: %v\n%s", fatalError, debug.Stack())
		}
	}()

	for !supervisor.stopping() {
		supervisor.attempt(ctx)

		if !supervisor.wait() {
			return
		}
	}
}

// Waits the backoff. False when stopped during the wait.
func (supervisor *Supervisor) wait() (proceed bool) {
	timer := time.NewTimer(supervisor.backoff)
	defer timer.Stop()

	select {
	case <-timer.C:
		proceed = true
	case <-supervisor.stopCh:
	}
	return
}

// Runs one attempt. For a successful attempt this blocks until the connection is lost.
func (supervisor *Supervisor) attempt(ctx context.Context) {
	supervisor.setState(Connecting)
	supervisor.Metrics.Attempts.Add(1)

	logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
		"Connecting to %s\n", supervisor.url)

	lost := make(chan struct{})
	var lostOnce sync.Once
	onDisconnect := func() { lostOnce.Do(func() { close(lost) }) }

	client, err := supervisor.connector.Connect(ctx, supervisor.host, supervisor.port, supervisor.observe, onDisconnect)
	if err == nil && client == nil {
		err = ErrNoClient
	}
	if err != nil {
		if supervisor.stopping() {
			return
		}
		supervisor.Metrics.Failures.Add(1)
		supervisor.notices.Printf("Connection failed, retrying in %dms: %v", supervisor.backoff.Milliseconds(), err)

		supervisor.mu.Lock()
		supervisor.complete(false)
		supervisor.current = newAttempt()
		supervisor.mu.Unlock()

		supervisor.setState(Disconnected)
		return
	}

	supervisor.mu.Lock()
	if supervisor.stopping() {
		supervisor.mu.Unlock()
		client.Close()
		return
	}
	supervisor.client = client
	supervisor.notices.Printf("Connected to: %s", supervisor.url)
	supervisor.setState(Connected)
	supervisor.complete(true)
	supervisor.mu.Unlock()

	select {
	case <-lost:
	case <-supervisor.stopCh:
		return // Stop closes the client
	}

	supervisor.mu.Lock()
	if supervisor.client == client {
		supervisor.client = nil
	}
	supervisor.mu.Unlock()
	client.Close()

	if supervisor.stopping() {
		return
	}
	supervisor.Metrics.Disconnects.Add(1)
	supervisor.notices.Printf("Disconnected from: %s, retrying in %dms.", supervisor.url, supervisor.backoff.Milliseconds())

	supervisor.mu.Lock()
	supervisor.current = newAttempt()
	supervisor.mu.Unlock()

	supervisor.setState(Disconnected)
}

// Counts and forwards events of the current connection
func (supervisor *Supervisor) observe(ev event.ServiceCallEvent) {
	supervisor.Metrics.Events.Add(1)
	if supervisor.onEvent != nil {
		supervisor.onEvent(ev)
	}
}
