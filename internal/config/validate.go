package config

import (
	"fmt"
	"io"
	"svclog/internal/filter"
	"svclog/internal/global"
	"svclog/internal/source"
)

// Rejects configurations that must not reach a connection attempt
func (cfg Config) Validate() (err error) {
	if cfg.EventServerURL == "" {
		err = ErrMissingURL
		return
	}
	_, _, err = source.ParseEndpoint(cfg.EventServerURL)
	if err != nil {
		err = fmt.Errorf("invalid event server url: %w", err)
		return
	}
	if cfg.File == "" {
		err = fmt.Errorf("log file path must not be empty")
		return
	}
	if cfg.Delimiter == "" {
		err = fmt.Errorf("delimiter must not be empty")
		return
	}
	if cfg.ReconnectBackoff <= 0 {
		err = fmt.Errorf("reconnect backoff must be positive, got %s", cfg.ReconnectBackoff)
		return
	}
	if cfg.QueueCapacity < global.MinimumQueueCapacity {
		err = fmt.Errorf("queue capacity must be at least %d, got %d", global.MinimumQueueCapacity, cfg.QueueCapacity)
		return
	}
	_, err = filter.Compile(cfg.FilterInclusive, cfg.FilterExclusive)
	if err != nil {
		return
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			err = fmt.Errorf("metric server port %d out of range", cfg.Metrics.Port)
			return
		}
		if cfg.Metrics.Interval <= 0 {
			err = fmt.Errorf("metric interval must be positive")
			return
		}
		if cfg.Metrics.MaxAge < cfg.Metrics.Interval {
			err = fmt.Errorf("metric max age %s is shorter than the interval %s", cfg.Metrics.MaxAge, cfg.Metrics.Interval)
			return
		}
	}
	return
}

// Writes the effective parameters to the output sink
func (cfg Config) PrintParams(w io.Writer) (err error) {
	_, err = fmt.Fprintf(w,
		"--file: %s\n--delimiter: %s\n--filter-inclusive: %s\n--filter-exclusive: %s\n--eventServerUrl: %s\n",
		cfg.File, cfg.Delimiter, cfg.FilterInclusive, cfg.FilterExclusive, cfg.EventServerURL)
	return
}
