package beats

import (
	"context"
	"fmt"
	"os"
	"svclog/internal/event"
	"svclog/internal/global"
	"svclog/internal/logctx"
	"time"
)

// Sends one event document. Never dials on the caller's goroutine: while disconnected
// the event is dropped and a background redial is started (at most one per backoff).
func (mod *OutModule) Write(ctx context.Context, ev event.ServiceCallEvent) (err error) {
	if mod == nil {
		return
	}
	mod.mu.Lock()
	defer mod.mu.Unlock()

	if mod.sink == nil {
		mod.Metrics.Dropped.Add(1)
		mod.redial(ctx)
		err = ErrNotConnected
		return
	}

	events := []interface{}{mod.document(ev)}
	sent, err := mod.sink.Send(events)
	if err != nil {
		mod.Metrics.Failures.Add(1)
		mod.sink.Close()
		mod.sink = nil
		mod.redial(ctx)
		err = fmt.Errorf("failed sending event to beats server: %w", err)
		return
	}
	mod.Metrics.Sent.Add(uint64(sent))
	return
}

// Starts a background reconnect unless one is running or the backoff has not passed.
// Caller must hold the lock.
func (mod *OutModule) redial(ctx context.Context) {
	if mod.closed || mod.dialing || time.Now().Before(mod.retryAfter) {
		return
	}
	mod.dialing = true
	mod.Metrics.Redials.Add(1)

	mod.wg.Add(1)
	go func() {
		defer mod.wg.Done()

		client, err := mod.dial(mod.address, mod.dialTimeout)

		mod.mu.Lock()
		defer mod.mu.Unlock()
		mod.dialing = false

		if err != nil {
			mod.Metrics.Failures.Add(1)
			mod.retryAfter = time.Now().Add(mod.redialBackoff)
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"Beats server %s unreachable, next attempt in %s: %v\n", mod.address, mod.redialBackoff, err)
			return
		}
		if mod.closed {
			client.Close()
			return
		}
		mod.sink = client
		logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
			"Reconnected to beats server %s\n", mod.address)
	}()
}

// Event document, ECS style field names where one exists
func (mod *OutModule) document(ev event.ServiceCallEvent) (fields map[string]interface{}) {
	timestamp := ev.End
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	fields = map[string]interface{}{
		// Minimum required fields
		"@timestamp": timestamp,
		"message":    event.Format(ev, mod.delimiter),

		"service": map[string]interface{}{
			"name":   ev.Service,
			"parent": ev.Parent,
		},
		"process": map[string]interface{}{
			"pid": ev.PID,
		},
		"transaction": map[string]interface{}{
			"id": ev.TransactionID,
		},
		"event": map[string]interface{}{
			"id":       ev.Execution.String(),
			"start":    ev.Start,
			"end":      ev.End,
			"duration": ev.End.Sub(ev.Start).Nanoseconds(),
			"code":     ev.Code,
			"sequence": ev.Order,
		},
		"svclog": map[string]interface{}{
			"pending_us": ev.Pending.Microseconds(),
		},
		"agent": map[string]interface{}{
			"program": global.ProgBaseName,
			"version": global.ProgVersion,
			"type":    "filebeat",
			"pid":     os.Getpid(),
		},
	}
	return
}
