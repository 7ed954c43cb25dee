package sqlite

import (
	"context"
	"fmt"
	"svclog/internal/event"
	"time"
)

// Inserts one event row
func (mod *OutModule) Write(ctx context.Context, ev event.ServiceCallEvent) (err error) {
	if mod == nil {
		return
	}
	mod.mu.Lock()
	defer mod.mu.Unlock()

	if mod.db == nil {
		err = fmt.Errorf("sqlite output is closed")
		return
	}

	_, err = mod.insert.ExecContext(ctx,
		ev.Service,
		ev.Parent,
		ev.PID,
		ev.Execution.String(),
		ev.TransactionID,
		micros(ev.Start),
		micros(ev.End),
		ev.Pending.Microseconds(),
		ev.Code,
		ev.Order,
	)
	if err != nil {
		mod.Metrics.Failures.Add(1)
		err = fmt.Errorf("failed inserting event into %q: %w", mod.path, err)
		return
	}
	mod.Metrics.Inserted.Add(1)
	return
}

func micros(t time.Time) (us int64) {
	if !t.IsZero() {
		us = t.UnixMicro()
	}
	return
}
