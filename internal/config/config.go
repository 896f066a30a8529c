// Package config loads CashTimer settings from the config file, first run
// prompts and command-line flags
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayoisaiah/cashtimer/ledger"
)

type (
	// Config holds all configuration settings
	Config struct {
		CLI           CLIConfig
		Rate          RateConfig
		Rates         RatesConfig
		Display       DisplayConfig
		Store         StoreConfig
		Notifications NotificationConfig
		Settings      SettingsConfig
		Log           LogConfig

		// answers given on first run, written to the new config file
		prompt *PromptOptions
	}

	// RateConfig holds the default billing rate for new sessions
	RateConfig struct {
		Hourly          decimal.Decimal
		Currency        string
		DisplayCurrency string
	}

	// RatesConfig holds exchange rate feed settings
	RatesConfig struct {
		URL             string
		RefreshInterval time.Duration
		Timeout         time.Duration
	}

	// DisplayConfig holds display-related settings
	DisplayConfig struct {
		SortOrder    ledger.SortOrder
		WeekStart    time.Weekday
		TickInterval time.Duration
		DarkTheme    bool
	}

	// StoreConfig selects the database backend
	StoreConfig struct {
		Driver string
	}

	// NotificationConfig holds notification settings
	NotificationConfig struct {
		Enabled bool
	}

	// SettingsConfig holds miscellaneous settings
	SettingsConfig struct {
		// Cmd runs after a session is stopped
		Cmd string
	}

	// LogConfig holds logging settings
	LogConfig struct {
		Level slog.Level
	}

	// CLIConfig holds values that only come from command-line flags
	CLIConfig struct {
		StartTime time.Time
		// RateSet reports whether --rate was provided
		RateSet bool
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v1.0.0"

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config with default values and applies options
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", errConfigOption, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errConfigValidation, err)
	}

	return cfg, nil
}
