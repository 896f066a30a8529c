package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/cashtimer/internal/timeutil"
	"github.com/ayoisaiah/cashtimer/ledger"
	"github.com/ayoisaiah/cashtimer/rates"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Since         string
	Rate          string
	Currency      string
	SessionCmd    string
	WeekStart     string
	Order         string
	Store         string
	DisableNotify bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Since:         ctx.String("since"),
			Rate:          ctx.String("rate"),
			Currency:      ctx.String("currency"),
			SessionCmd:    ctx.String("session-cmd"),
			WeekStart:     ctx.String("week-start"),
			Order:         ctx.String("order"),
			Store:         ctx.String("store"),
			DisableNotify: ctx.Bool("disable-notification"),
		}

		return applyCLIOptions(c, opts, time.Now())
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions, now time.Time) error {
	if opts.Rate != "" {
		rate, err := decimal.NewFromString(strings.TrimSpace(opts.Rate))
		if err != nil {
			return errInvalidValue.Fmt("--rate", opts.Rate)
		}

		c.Rate.Hourly = rate
		c.CLI.RateSet = true
	}

	if opts.Currency != "" {
		c.Rate.DisplayCurrency = rates.NormalizeCode(opts.Currency)
	}

	if opts.WeekStart != "" {
		day, err := timeutil.ParseWeekday(opts.WeekStart)
		if err != nil {
			return err
		}

		c.Display.WeekStart = day
	}

	if opts.Order != "" {
		order, err := ledger.ParseSortOrder(opts.Order)
		if err != nil {
			return err
		}

		c.Display.SortOrder = order
	}

	if opts.Store != "" {
		c.Store.Driver = strings.ToLower(opts.Store)
	}

	if opts.DisableNotify {
		c.Notifications.Enabled = false
	}

	if opts.SessionCmd != "" {
		c.Settings.Cmd = opts.SessionCmd
	}

	if opts.Since != "" {
		startTime, err := timeutil.FromStr(opts.Since, now)
		if err != nil {
			return fmt.Errorf("invalid since time: %w", err)
		}

		c.CLI.StartTime = startTime
	}

	return nil
}
