package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"svclog/internal/global"
	"svclog/internal/logctx"
	"syscall"
)

// Reopens the output file (SIGHUP)
type Rotator interface {
	Rotate() (err error)
}

// Stops the daemon (SIGINT/SIGTERM/SIGQUIT)
type Stopper interface {
	Shutdown()
}

// Registers for the handled signals. From here on they queue on sigChan instead of
// taking their default action, so call this before any startup work. stop unregisters.
func Listen() (sigChan <-chan os.Signal, stop func()) {
	signals := make(chan os.Signal, 10)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGHUP)

	sigChan = signals
	stop = func() { signal.Stop(signals) }
	return
}

// Handles all incoming signals from external sources.
// SIGHUP rotates the log file, termination signals shut the daemon down and return.
// Also returns when ctx is cancelled (without calling Shutdown).
func SignalHandler(ctx context.Context, sigChan <-chan os.Signal, rotator Rotator, daemon Stopper) {
	ctx = logctx.AppendCtxTag(ctx, global.NSLifecycle)

	for {
		var sig os.Signal
		select {
		case <-ctx.Done():
			return
		case sig = <-sigChan:
		}
		logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "Received signal: %v\n", sig)

		if sig == syscall.SIGHUP {
			rotate(ctx, rotator)
			continue
		}

		err := NotifyStopping(ctx)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify stopping failed: %v\n", err)
		}

		daemon.Shutdown()
		return
	}
}

// Rotation wrapped in reload notifications
func rotate(ctx context.Context, rotator Rotator) {
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "Beginning log file rotation...\n")

	err := NotifyReload(ctx)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify reload failed: %v\n", err)
	}

	err = rotator.Rotate()
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Rotation failed: %v\n", err)

		err = NotifyStatus(ctx, "Rotation failed, log writes will fail until the next successful rotation. Check daemon logs.")
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify status failed: %v\n", err)
		}
	} else {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "Log file reopened\n")
	}

	err = NotifyReady(ctx)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify ready failed: %v\n", err)
	}
}
