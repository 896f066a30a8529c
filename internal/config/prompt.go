package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/shopspring/decimal"

	"github.com/ayoisaiah/cashtimer/rates"
)

const asciiLogo = `
 ██████╗ █████╗ ███████╗██╗  ██╗████████╗██╗███╗   ███╗███████╗██████╗
██╔════╝██╔══██╗██╔════╝██║  ██║╚══██╔══╝██║████╗ ████║██╔════╝██╔══██╗
██║     ███████║███████╗███████║   ██║   ██║██╔████╔██║█████╗  ██████╔╝
██║     ██╔══██║╚════██║██╔══██║   ██║   ██║██║╚██╔╝██║██╔══╝  ██╔══██╗
╚██████╗██║  ██║███████║██║  ██║   ██║   ██║██║ ╚═╝ ██║███████╗██║  ██║
 ╚═════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝   ╚═╝   ╚═╝╚═╝     ╚═╝╚══════╝╚═╝  ╚═╝`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	HourlyRate string
	Currency   string
	WeekStart  time.Weekday
}

// WithPromptConfig returns an Option that configures settings via
// interactive prompts. It does nothing once the config file exists.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		opts, err := promptUser()
		if err != nil {
			return fmt.Errorf("user prompt failed: %w", err)
		}

		return applyPromptOptions(c, opts)
	}
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	opts := PromptOptions{
		HourlyRate: "100",
		Currency:   rates.BaseCurrency,
		WeekStart:  time.Monday,
	}

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure CashTimer for the first time.
Enter your values, or press ENTER to accept the defaults.
Edit the config file with 'cashtimer edit-config' to change any settings.`, " ").
		Render()

	currencies := rates.Currencies()
	currencyOpts := make([]huh.Option[string], 0, len(currencies))

	for _, cur := range currencies {
		label := fmt.Sprintf("%s %s (%s)", cur.Flag, cur.Name, cur.Code)
		currencyOpts = append(currencyOpts, huh.NewOption(label, cur.Code))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Hourly rate").
				Validate(func(s string) error {
					_, err := parseRate(s)
					return err
				}).
				Value(&opts.HourlyRate),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Currency of your rate").
				Options(currencyOpts...).
				Value(&opts.Currency),
		),
		huh.NewGroup(
			huh.NewSelect[time.Weekday]().
				Title("First day of the week").
				Options(
					huh.NewOption("Monday", time.Monday).Selected(true),
					huh.NewOption("Sunday", time.Sunday),
					huh.NewOption("Saturday", time.Saturday),
				).
				Value(&opts.WeekStart),
		),
	)

	err := form.Run()
	if err != nil {
		return opts, fmt.Errorf("form interaction failed: %w", err)
	}

	return opts, nil
}

func parseRate(s string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, errInvalidValue.Fmt("hourly rate", s)
	}

	if rate.IsNegative() {
		return decimal.Zero, errNegativeRate.Fmt(rate.String())
	}

	return rate, nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) error {
	rate, err := parseRate(opts.HourlyRate)
	if err != nil {
		return err
	}

	c.Rate.Hourly = rate
	c.Rate.Currency = rates.NormalizeCode(opts.Currency)
	c.Display.WeekStart = opts.WeekStart
	c.prompt = &opts

	return nil
}
