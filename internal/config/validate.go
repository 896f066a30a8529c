package config

import (
	"net/url"
	"regexp"
	"time"
)

var (
	// Refresh interval constraints.
	minRefreshInterval = 10 * time.Second
	maxRefreshInterval = 24 * time.Hour

	// Feed request timeout constraints.
	minTimeout = 100 * time.Millisecond
	maxTimeout = time.Minute

	// Live view tick constraints.
	minTickInterval = 10 * time.Millisecond
	maxTickInterval = 10 * time.Second

	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if err := c.validateRate(); err != nil {
		return err
	}

	if err := c.validateRates(); err != nil {
		return err
	}

	if c.Display.TickInterval < minTickInterval ||
		c.Display.TickInterval > maxTickInterval {
		return errInvalidDuration.Fmt(
			keyTickInterval,
			minTickInterval,
			maxTickInterval,
			c.Display.TickInterval,
		)
	}

	switch c.Store.Driver {
	case "bolt", "sqlite":
	default:
		return errUnknownDriver.Fmt(c.Store.Driver)
	}

	return nil
}

func (c *Config) validateRate() error {
	if c.Rate.Hourly.IsNegative() {
		return errNegativeRate.Fmt(c.Rate.Hourly.String())
	}

	if !currencyRegex.MatchString(c.Rate.Currency) {
		return errInvalidCurrency.Fmt(keyCurrency, c.Rate.Currency)
	}

	if !currencyRegex.MatchString(c.Rate.DisplayCurrency) {
		return errInvalidCurrency.Fmt(keyDisplayCurrency, c.Rate.DisplayCurrency)
	}

	return nil
}

func (c *Config) validateRates() error {
	u, err := url.Parse(c.Rates.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errInvalidURL.Fmt(c.Rates.URL)
	}

	if c.Rates.RefreshInterval < minRefreshInterval ||
		c.Rates.RefreshInterval > maxRefreshInterval {
		return errInvalidDuration.Fmt(
			keyRatesRefresh,
			minRefreshInterval,
			maxRefreshInterval,
			c.Rates.RefreshInterval,
		)
	}

	if c.Rates.Timeout < minTimeout || c.Rates.Timeout > maxTimeout {
		return errInvalidDuration.Fmt(
			keyRatesTimeout,
			minTimeout,
			maxTimeout,
			c.Rates.Timeout,
		)
	}

	return nil
}
