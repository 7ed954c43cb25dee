package config

import (
	"fmt"
	"os"
	"strings"
	"svclog/internal/global"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Built-in values for every key, lowest precedence layer
func defaults() map[string]any {
	return map[string]any{
		"event_server_url":      "",
		"file":                  global.DefaultLogFile,
		"delimiter":             global.DefaultDelimiter,
		"filter_inclusive":      "",
		"filter_exclusive":      "",
		"reconnect_backoff":     global.DefaultReconnectBackoff.String(),
		"queue_capacity":        global.DefaultQueueCapacity,
		"outputs.beats_address": "",
		"outputs.sqlite_path":   "",
		"metrics.enabled":       false,
		"metrics.port":          global.DefaultMetricPort,
		"metrics.interval":      global.DefaultMetricInterval.String(),
		"metrics.max_age":       global.DefaultMetricMaxAge.String(),
	}
}

// Loads a dotenv file into the process environment.
// Variables already present in the environment are left untouched.
// A missing file is not an error.
func LoadDotEnv(path string) (err error) {
	if path == "" {
		path = global.DefaultDotEnvFilePath
	}
	err = godotenv.Load(path)
	if err != nil && os.IsNotExist(err) {
		err = nil
	}
	return
}

// Maps SVCLOG_OUTPUTS__BEATS_ADDRESS to outputs.beats_address
func envKey(name string) (key string) {
	key = strings.ToLower(strings.TrimPrefix(name, global.EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	return
}

// Merges defaults, the optional YAML file, SVCLOG_* environment and explicit overrides (in that order)
func Load(configPath string, overrides map[string]any) (cfg Config, err error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		err = k.Set(key, value)
		if err != nil {
			err = fmt.Errorf("failed to set default for %s: %w", key, err)
			return
		}
	}

	if configPath != "" {
		err = k.Load(file.Provider(configPath), yaml.Parser())
		if err != nil {
			err = fmt.Errorf("failed to load config file '%s': %w", configPath, err)
			return
		}
	}

	err = k.Load(env.Provider(global.EnvPrefix, ".", envKey), nil)
	if err != nil {
		err = fmt.Errorf("failed to load environment: %w", err)
		return
	}

	for key, value := range overrides {
		err = k.Set(key, value)
		if err != nil {
			err = fmt.Errorf("failed to apply argument %s: %w", key, err)
			return
		}
	}

	err = k.Unmarshal("", &cfg)
	if err != nil {
		err = fmt.Errorf("invalid configuration: %w", err)
		return
	}
	return
}
