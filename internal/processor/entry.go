// Single consumer loop: take, filter, format, write
package processor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"svclog/internal/atomics"
	"svclog/internal/event"
	"svclog/internal/filter"
	"svclog/internal/global"
	"svclog/internal/logctx"
	"time"
)

// Creates a processor reading from inbox and writing accepted events to writer (and any outputs)
func New(namespace []string, inbox Inbox, spec filter.Spec, delimiter string, writer LineWriter, outputs ...Output) (new *Instance) {
	new = &Instance{
		Namespace: append(append([]string{}, namespace...), global.NSProc),
		inbox:     inbox,
		filter:    spec,
		delimiter: delimiter,
		writer:    writer,
		Metrics:   &MetricStorage{},
	}
	for _, output := range outputs {
		if output != nil {
			new.outputs = append(new.outputs, output)
		}
	}
	return
}

// Processes events in arrival order until ctx is cancelled or the inbox closes.
// Returns the first log write error, which is fatal. Events dropped by a recovered
// panic are counted and handed to OnDrop instead.
func (instance *Instance) Run(ctx context.Context) (err error) {
	ctx = logctx.AppendCtxTag(ctx, global.NSProc)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev, received := instance.inbox.Take(ctx)
		if !received {
			return
		}

		err = instance.process(ctx, ev)
		if errors.Is(err, ErrEventDropped) {
			instance.Metrics.DroppedTotal.Add(1)
			if instance.OnDrop != nil {
				instance.OnDrop(ev, err)
			}
			err = nil
			continue
		}
		if err != nil {
			return
		}
	}
}

// Handles one event. A panic is returned wrapped in ErrEventDropped.
func (instance *Instance) process(ctx context.Context, ev event.ServiceCallEvent) (err error) {
	defer func() {
		if fatalError := recover(); fatalError != nil {
			instance.Metrics.Panics.Add(1)
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in processing loop: %v\n%s", fatalError, debug.Stack())
			err = fmt.Errorf("%w: service %q pid %d: %v", ErrEventDropped, ev.Service, ev.PID, fatalError)
		}
	}()

	instance.Metrics.Received.Add(1)

	if !instance.filter.ShouldLog(ev) {
		instance.Metrics.Filtered.Add(1)
		logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
			"Filtered event for service %q\n", ev.Service)
		return
	}
	instance.Metrics.Accepted.Add(1)

	line := event.Format(ev, instance.delimiter)

	startTime := time.Now()
	err = instance.writer.Write(line)
	if err != nil {
		err = fmt.Errorf("log write failed: %w", err)
		return
	}
	durNs := uint64(time.Since(startTime).Nanoseconds())
	instance.Metrics.SumNs.Add(durNs)
	atomics.StoreMax(&instance.Metrics.MaxNs, durNs)
	instance.Metrics.Written.Add(1)

	logctx.LogEvent(ctx, global.VerbosityFullData, global.InfoLog, "Wrote: %s\n", line)

	for _, output := range instance.outputs {
		outErr := output.Write(ctx, ev)
		if outErr != nil {
			instance.Metrics.OutputErrors.Add(1)
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"Failed to write event to %s output: %v\n", output.Name(), outErr)
		}
	}
	return
}
