package metrics

import (
	"context"
	"runtime/debug"
	"svclog/internal/global"
	"svclog/internal/logctx"
	"time"
)

// Number of poll ticks between registry prunes
const pruneEveryTicks int = 30

// Creates a gatherer with its own registry
func NewGatherer(interval, retention time.Duration, collectors ...Collector) (new *Gatherer) {
	new = &Gatherer{
		Interval:   interval,
		Retention:  retention,
		Registry:   New(),
		collectors: collectors,
	}
	return
}

// Collects on every interval until ctx is cancelled
func (gatherer *Gatherer) Run(ctx context.Context) {
	ctx = logctx.AppendCtxTag(ctx, global.NSMetric)

	lastRun := time.Now()

	// Poll at half the record interval
	ticker := time.NewTicker(gatherer.Interval / 2)
	defer ticker.Stop()

	var tickCount int
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Sub(lastRun) >= gatherer.Interval {
				lastRun = now
				gatherer.CollectOnce(ctx, now)
			}

			tickCount++
			if tickCount >= pruneEveryTicks {
				gatherer.Registry.Prune(now, gatherer.Retention)
				tickCount = 0
			}
		}
	}
}

// Pulls one interval worth of metrics from every collector
func (gatherer *Gatherer) CollectOnce(ctx context.Context, now time.Time) {
	defer func() {
		if fatalError := recover(); fatalError != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in metric collector: %v\n%s", fatalError, debug.Stack())
		}
	}()

	timeSlice := gatherer.Registry.NewTimeSlice(now, gatherer.Interval)
	for _, collector := range gatherer.collectors {
		if collector == nil {
			continue
		}
		gatherer.Registry.Add(timeSlice, collector.CollectMetrics(gatherer.Interval))
	}
}
