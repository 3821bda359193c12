// Package config defines the ensemble configuration, its defaults, and the
// viper wiring that loads it from file, environment, and flags.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete ensemble configuration
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Countdown CountdownConfig `mapstructure:"countdown"`
	Echo      EchoConfig      `mapstructure:"echo"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Pidfile   PidfileConfig   `mapstructure:"pidfile"`
}

// LoggingConfig controls diagnostic output
type LoggingConfig struct {
	// Level is the initial log level threshold: DEBUG, INFO, WARN or ERROR.
	// The debug plugin can adjust it at runtime.
	Level string `mapstructure:"level"`
}

// CountdownConfig holds defaults for the countdown plugin
type CountdownConfig struct {
	// From is the number the countdown starts at
	From int `mapstructure:"from"`
	// IntervalMs is the pause between counts in milliseconds
	IntervalMs int `mapstructure:"interval_ms"`
}

// EchoConfig holds defaults for the echo plugin
type EchoConfig struct {
	// Immediately echoes the current value on start instead of waiting for
	// the first update
	Immediately bool `mapstructure:"immediately"`
	// MinIntervalMs throttles echo output; 0 means unthrottled
	MinIntervalMs int `mapstructure:"min_interval_ms"`
}

// WatchConfig holds defaults for the watchfile plugin
type WatchConfig struct {
	// Path is the file or directory to watch
	Path string `mapstructure:"path"`
}

// PidfileConfig holds defaults for the pidfile plugin
type PidfileConfig struct {
	// Path is where the pid file is written
	Path string `mapstructure:"path"`
}

// Interval returns the countdown pause as a duration.
func (c *CountdownConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// MinInterval returns the echo throttle as a duration.
func (c *EchoConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMs) * time.Millisecond
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "INFO",
		},
		Countdown: CountdownConfig{
			From:       3,
			IntervalMs: 1000,
		},
		Echo: EchoConfig{
			Immediately: false,
		},
		Watch: WatchConfig{
			Path: ".",
		},
		Pidfile: PidfileConfig{
			Path: "ensemble.pid",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("logging.level", defaults.Logging.Level)

	viper.SetDefault("countdown.from", defaults.Countdown.From)
	viper.SetDefault("countdown.interval_ms", defaults.Countdown.IntervalMs)

	viper.SetDefault("echo.immediately", defaults.Echo.Immediately)
	viper.SetDefault("echo.min_interval_ms", defaults.Echo.MinIntervalMs)

	viper.SetDefault("watch.path", defaults.Watch.Path)

	viper.SetDefault("pidfile.path", defaults.Pidfile.Path)
}

// Load reads the configuration from viper into a Config struct
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "ensemble")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "ensemble")
}

// ConfigFile returns the path to the default config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
