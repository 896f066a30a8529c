package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/cashtimer/internal/config"
	"github.com/ayoisaiah/cashtimer/internal/ui"
	"github.com/ayoisaiah/cashtimer/ledger"
)

const (
	envNoColor          = "NO_COLOR"
	envCashTimerNoColor = "CASHTIMER_NO_COLOR"
)

// Get retrieves the cashtimer app instance.
func Get() *cli.App {
	cashTimerApp := &cli.App{
		Name: "cashtimer",
		Authors: []*cli.Author{
			{
				Name:  "Ayooluwa Isaiah",
				Email: "ayo@freshman.tech",
			},
		},
		Usage: `
		CashTimer tracks the time you spend working and shows what you earn at
		your hourly rate as the clock runs. Sessions can be paused, edited and
		exported as weekly invoices.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "start",
				Usage:  "Start a new session",
				Flags:  []cli.Flag{rateFlag, sinceFlag, sessionCmdFlag},
				Action: startAction,
			},
			{
				Name:   "pause",
				Usage:  "Pause the current session",
				Action: pauseAction,
			},
			{
				Name:   "resume",
				Usage:  "Resume the paused session",
				Action: resumeAction,
			},
			{
				Name:   "stop",
				Usage:  "Stop the current session and print its summary",
				Flags:  []cli.Flag{disableNotificationFlag, sessionCmdFlag},
				Action: stopAction,
			},
			{
				Name:   "status",
				Usage:  "Print the status of the current session",
				Flags:  []cli.Flag{currencyFlag},
				Action: statusAction,
			},
			{
				Name:  "watch",
				Usage: "Show the live timer and earnings of the current session",
				Flags: []cli.Flag{
					currencyFlag,
					disableNotificationFlag,
					sessionCmdFlag,
				},
				Action: watchAction,
			},
			{
				Name:   "list",
				Usage:  "List all sessions",
				Flags:  []cli.Flag{jsonFlag, orderFlag},
				Action: listAction,
			},
			{
				Name:      "show",
				Usage:     "Show a session and its pauses",
				ArgsUsage: "<session-id>",
				Action:    showAction,
			},
			{
				Name:   "weeks",
				Usage:  "Summarise the sessions of each week",
				Flags:  []cli.Flag{orderFlag, weekStartFlag, currencyFlag},
				Action: weeksAction,
			},
			{
				Name:   "stats",
				Usage:  "Chart the time worked and money earned over a period",
				Flags:  []cli.Flag{fromFlag, toFlag, weekStartFlag},
				Action: statsAction,
			},
			{
				Name: "export",
				Usage: `
				Copy the invoice of a week to the clipboard. Hours are rounded up to
				the next quarter`,
				Flags:  []cli.Flag{weekFlag, weekStartFlag, printFlag, disableNotificationFlag},
				Action: exportAction,
			},
			{
				Name:  "edit",
				Usage: "Edit the start, end or pauses of a session",
				Subcommands: []*cli.Command{
					{
						Name:      "start",
						Usage:     "Move the start of a session",
						ArgsUsage: "<session-id> <time>",
						Action:    editBoundaryAction(ledger.Start),
					},
					{
						Name:      "end",
						Usage:     "Move the end of a stopped session",
						ArgsUsage: "<session-id> <time>",
						Action:    editBoundaryAction(ledger.End),
					},
					{
						Name:      "pause",
						Usage:     "Change a pause or add a new one",
						ArgsUsage: "<session-id>",
						Flags:     []cli.Flag{pauseIDFlag, pauseStartFlag, pauseEndFlag},
						Action:    editPauseAction,
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a session permanently",
				ArgsUsage: "<session-id>",
				Flags:     []cli.Flag{yesFlag},
				Action:    deleteAction,
			},
			{
				Name:      "delete-pause",
				Usage:     "Delete a pause from a session",
				ArgsUsage: "<session-id> <pause-id>",
				Action:    deletePauseAction,
			},
			{
				Name:   "rates",
				Usage:  "List the exchange rates",
				Flags:  []cli.Flag{offlineFlag},
				Action: ratesAction,
			},
			{
				Name:      "convert",
				Usage:     "Convert an amount between currencies",
				ArgsUsage: "<amount> <from> <to>",
				Flags:     []cli.Flag{offlineFlag},
				Action:    convertAction,
			},
			{
				Name:   "signup",
				Usage:  "Create an account and sign in",
				Flags:  []cli.Flag{emailFlag},
				Action: signUpAction,
			},
			{
				Name:   "signin",
				Usage:  "Sign in to an existing account",
				Flags:  []cli.Flag{emailFlag},
				Action: signInAction,
			},
			{
				Name:   "signout",
				Usage:  "Sign out of the current account",
				Action: signOutAction,
			},
			{
				Name:   "whoami",
				Usage:  "Print the signed in account",
				Action: whoamiAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags:  globalFlags,
		Action: defaultAction,
		Before: beforeAction,
		After:  afterAction,
	}

	return cashTimerApp
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	// Override the default version printer
	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Printf(
			"https://github.com/ayoisaiah/cashtimer/releases/%s\n",
			c.App.Version,
		)
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		ui.DisableStyling()
	}

	// Disable colour output if CASHTIMER_NO_COLOR is set
	if _, exists := os.LookupEnv(envCashTimerNoColor); exists {
		ui.DisableStyling()
	}

	if ctx.Bool("no-color") {
		ui.DisableStyling()
	}

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting cashtimer")

	return nil
}
