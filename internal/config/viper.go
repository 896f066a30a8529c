package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/ayoisaiah/cashtimer/internal/timeutil"
	"github.com/ayoisaiah/cashtimer/ledger"
	"github.com/ayoisaiah/cashtimer/rates"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyHourlyRate           = "rate.hourly"
	keyCurrency             = "rate.currency"
	keyDisplayCurrency      = "rate.display_currency"
	keyRatesURL             = "rates.url"
	keyRatesRefresh         = "rates.refresh_interval"
	keyRatesTimeout         = "rates.timeout"
	keyWeekStart            = "display.week_start"
	keySortOrder            = "display.sort_order"
	keyDarkTheme            = "display.dark_theme"
	keyTickInterval         = "display.tick_interval"
	keyStoreDriver          = "store.driver"
	keyNotificationsEnabled = "notifications.enabled"
	keySessionCmd           = "settings.cmd"
	keyLogLevel             = "log.level"
)

// WithViperConfig returns an Option that loads configuration from Viper. A
// missing config file is created with the default values.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults and prompt values.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyHourlyRate, 100)
	v.SetDefault(keyCurrency, rates.BaseCurrency)
	v.SetDefault(keyDisplayCurrency, rates.BaseCurrency)
	v.SetDefault(keyRatesURL, rates.DefaultURL)
	v.SetDefault(keyRatesRefresh, "60s")
	v.SetDefault(keyRatesTimeout, "10s")
	v.SetDefault(keyWeekStart, "monday")
	v.SetDefault(keySortOrder, string(ledger.Descending))
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyTickInterval, "100ms")
	v.SetDefault(keyStoreDriver, "bolt")
	v.SetDefault(keyNotificationsEnabled, true)
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyLogLevel, "info")

	if c.prompt == nil {
		return
	}

	v.SetDefault(keyHourlyRate, c.Rate.Hourly.InexactFloat64())
	v.SetDefault(keyCurrency, c.Rate.Currency)
	v.SetDefault(keyDisplayCurrency, c.Rate.Currency)
	v.SetDefault(keyWeekStart, strings.ToLower(c.Display.WeekStart.String()))
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	var err error

	hourly := strings.TrimSpace(v.GetString(keyHourlyRate))

	c.Rate.Hourly, err = decimal.NewFromString(hourly)
	if err != nil {
		return errInvalidValue.Fmt(keyHourlyRate, hourly)
	}

	c.Rate.Currency = rates.NormalizeCode(v.GetString(keyCurrency))
	c.Rate.DisplayCurrency = rates.NormalizeCode(v.GetString(keyDisplayCurrency))
	c.Rates.URL = strings.TrimSpace(v.GetString(keyRatesURL))

	durations := map[string]*time.Duration{
		keyRatesRefresh: &c.Rates.RefreshInterval,
		keyRatesTimeout: &c.Rates.Timeout,
		keyTickInterval: &c.Display.TickInterval,
	}

	for key, dst := range durations {
		*dst, err = parseDuration(v.GetString(key))
		if err != nil {
			return errInvalidValue.Fmt(key, v.GetString(key))
		}
	}

	c.Display.WeekStart, err = timeutil.ParseWeekday(v.GetString(keyWeekStart))
	if err != nil {
		return errInvalidValue.Fmt(keyWeekStart, v.GetString(keyWeekStart))
	}

	c.Display.SortOrder, err = ledger.ParseSortOrder(v.GetString(keySortOrder))
	if err != nil {
		return errInvalidValue.Fmt(keySortOrder, v.GetString(keySortOrder))
	}

	c.Display.DarkTheme = v.GetBool(keyDarkTheme)
	c.Store.Driver = strings.ToLower(strings.TrimSpace(v.GetString(keyStoreDriver)))
	c.Notifications.Enabled = v.GetBool(keyNotificationsEnabled)
	c.Settings.Cmd = v.GetString(keySessionCmd)

	level := v.GetString(keyLogLevel)

	err = c.Log.Level.UnmarshalText([]byte(level))
	if err != nil {
		return errInvalidValue.Fmt(keyLogLevel, level)
	}

	return nil
}

// parseDuration parses duration strings. A bare number is taken as seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	dur, err := time.ParseDuration(s)
	if err == nil {
		return dur, nil
	}

	return time.ParseDuration(s + "s")
}
