package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"svclog/internal/config"
	"svclog/internal/daemon"
	"svclog/internal/global"
	"svclog/internal/lifecycle"
	"svclog/internal/logctx"
)

// Flag name to configuration key, shared by short and long aliases
var runFlagKeys = map[string]string{
	"eventServerUrl":    "event_server_url",
	"f":                 "file",
	"file":              "file",
	"d":                 "delimiter",
	"delimiter":         "delimiter",
	"filter-inclusive":  "filter_inclusive",
	"filter-exclusive":  "filter_exclusive",
	"reconnect-backoff": "reconnect_backoff",
	"queue-capacity":    "queue_capacity",
	"beats-address":     "outputs.beats_address",
	"sqlite-path":       "outputs.sqlite_path",
	"metrics":           "metrics.enabled",
	"metrics-port":      "metrics.port",
}

// Registers run options. Values are only read back for flags present on the command line.
func setRunArguments(fs *flag.FlagSet) {
	fs.String("eventServerUrl", "", "Event server from which to retrieve events (tcp://host:port)")
	fs.String("f", global.DefaultLogFile, "Where to log")
	fs.String("file", global.DefaultLogFile, "Where to log")
	fs.String("d", global.DefaultDelimiter, "Delimiter between columns")
	fs.String("delimiter", global.DefaultDelimiter, "Delimiter between columns")
	fs.String("filter-inclusive", "", "Only services that match the expression are logged")
	fs.String("filter-exclusive", "", "Only services that do not match the expression are logged")
	fs.Duration("reconnect-backoff", global.DefaultReconnectBackoff, "Wait between connection attempts")
	fs.Int("queue-capacity", global.DefaultQueueCapacity, "Events buffered between the connection and the log file")
	fs.String("beats-address", "", "Also forward accepted events to this beats (lumberjack) server")
	fs.String("sqlite-path", "", "Also store accepted events in this SQLite database")
	fs.Bool("metrics", false, "Enable the local status and metric HTTP server")
	fs.Int("metrics-port", global.DefaultMetricPort, "Port for the status and metric HTTP server")
}

// Collects explicitly set flags as configuration overrides
func explicitOverrides(fs *flag.FlagSet) (overrides map[string]any) {
	overrides = make(map[string]any)
	fs.Visit(func(arg *flag.Flag) {
		key, ok := runFlagKeys[arg.Name]
		if !ok {
			return
		}
		overrides[key] = arg.Value.String()
	})
	return
}

// Parses run arguments into a validated configuration
func loadRunConfig(fs *flag.FlagSet, args []string) (cfg config.Config, err error) {
	var configPath, envFilePath string
	SetCommon(fs, &configPath, &envFilePath)
	setRunArguments(fs)

	err = fs.Parse(args)
	if err != nil {
		return
	}
	if fs.NArg() > 0 {
		err = fmt.Errorf("unexpected argument '%s'", fs.Arg(0))
		return
	}

	err = config.LoadDotEnv(envFilePath)
	if err != nil {
		err = fmt.Errorf("failed to load dotenv file: %w", err)
		return
	}

	cfg, err = config.Load(configPath, explicitOverrides(fs))
	if err != nil {
		return
	}
	err = cfg.Validate()
	return
}

// Runs the logging daemon until a termination signal or a fatal log write error
func RunMode(ctx context.Context, cliOpts *global.CommandSet, commandname string, args []string) (err error) {
	commandFlags := flag.NewFlagSet(commandname, flag.ContinueOnError)
	SetGlobalArguments(commandFlags)
	commandFlags.Usage = func() {
		PrintHelpMenu(os.Stdout, commandFlags, commandname, cliOpts)
	}

	cfg, err := loadRunConfig(commandFlags, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			err = nil
			return
		}
		return
	}
	logctx.SetLogLevel(ctx, global.Verbosity)

	// Signals during startup wait for the handler
	sigChan, stopSignals := lifecycle.Listen()
	defer stopSignals()

	logDaemon := daemon.NewDaemon(cfg)
	err = logDaemon.Start(ctx)
	if err != nil {
		err = fmt.Errorf("failed starting daemon: %w", err)
		return
	}

	sigCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go lifecycle.SignalHandler(sigCtx, sigChan, logDaemon, logDaemon)

	notifyErr := lifecycle.NotifyReady(ctx)
	if notifyErr != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify ready failed: %v\n", notifyErr)
	}

	err = logDaemon.Run()
	if err != nil {
		err = fmt.Errorf("%w (stopped logging, check the connection notices above)", err)
	}
	return
}
