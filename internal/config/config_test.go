package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestDefaultsRoundTripThroughViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	if cfg.Logging.Level != want.Logging.Level {
		t.Errorf("logging.level = %q, want %q", cfg.Logging.Level, want.Logging.Level)
	}
	if cfg.Countdown.From != want.Countdown.From {
		t.Errorf("countdown.from = %d, want %d", cfg.Countdown.From, want.Countdown.From)
	}
	if cfg.Countdown.Interval() != want.Countdown.Interval() {
		t.Errorf("countdown interval = %v, want %v", cfg.Countdown.Interval(), want.Countdown.Interval())
	}
	if cfg.Echo.Immediately != want.Echo.Immediately {
		t.Errorf("echo.immediately = %v, want %v", cfg.Echo.Immediately, want.Echo.Immediately)
	}
}

func TestOverridesWinOverDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("countdown.from", 10)
	viper.Set("logging.level", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Countdown.From != 10 {
		t.Errorf("countdown.from = %d, want 10", cfg.Countdown.From)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("logging.level = %q, want DEBUG", cfg.Logging.Level)
	}
}

func TestConfigDirIsNotEmpty(t *testing.T) {
	if ConfigDir() == "" {
		t.Error("ConfigDir returned an empty path")
	}
	if ConfigFile() == "" {
		t.Error("ConfigFile returned an empty path")
	}
}
