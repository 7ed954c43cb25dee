package config

import (
	"errors"
	"time"
)

var ErrMissingURL = errors.New("event server url is required (--eventServerUrl)")

// Effective startup parameters after all layers are merged
type Config struct {
	EventServerURL   string        `koanf:"event_server_url"`
	File             string        `koanf:"file"`
	Delimiter        string        `koanf:"delimiter"`
	FilterInclusive  string        `koanf:"filter_inclusive"`
	FilterExclusive  string        `koanf:"filter_exclusive"`
	ReconnectBackoff time.Duration `koanf:"reconnect_backoff"`
	QueueCapacity    int           `koanf:"queue_capacity"`
	Outputs          Outputs       `koanf:"outputs"`
	Metrics          Metrics       `koanf:"metrics"`
}

// Optional secondary outputs (empty disables)
type Outputs struct {
	BeatsAddress string `koanf:"beats_address"`
	SQLitePath   string `koanf:"sqlite_path"`
}

type Metrics struct {
	Enabled  bool          `koanf:"enabled"`
	Port     int           `koanf:"port"`
	Interval time.Duration `koanf:"interval"`
	MaxAge   time.Duration `koanf:"max_age"`
}
