package app

import "github.com/urfave/cli/v2"

var (
	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Start the session in the past (e.g. '20 mins ago'). Must not overlap with any existing sessions",
	}

	rateFlag = &cli.StringFlag{
		Name:    "rate",
		Aliases: []string{"r"},
		Usage:   "Hourly rate for the session (defaults to rate.hourly)",
	}

	currencyFlag = &cli.StringFlag{
		Name:    "currency",
		Aliases: []string{"c"},
		Usage:   "Currency to show earnings in (defaults to rate.display_currency)",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification that appears after a session is stopped",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after the session is stopped",
	}

	storeFlag = &cli.StringFlag{
		Name:  "store",
		Usage: "Database backend to use: bolt or sqlite (defaults to store.driver)",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}

	orderFlag = &cli.StringFlag{
		Name:  "order",
		Usage: "Sort sessions and weeks: asc or desc (defaults to display.sort_order)",
	}

	weekStartFlag = &cli.StringFlag{
		Name:  "week-start",
		Usage: "First day of the week (defaults to display.week_start)",
	}

	weekFlag = &cli.IntFlag{
		Name:    "week",
		Aliases: []string{"w"},
		Usage:   "Which week to export: 0 is the current week, 1 the week before and so on",
	}

	printFlag = &cli.BoolFlag{
		Name:    "print",
		Aliases: []string{"p"},
		Usage:   "Print the invoice instead of copying it to the clipboard",
	}

	pauseIDFlag = &cli.StringFlag{
		Name:  "pause",
		Usage: "ID of the pause to edit. A new pause is added when omitted",
	}

	pauseStartFlag = &cli.StringFlag{
		Name:  "start",
		Usage: "Start of the pause (e.g. '10:30' or '40 mins ago')",
	}

	pauseEndFlag = &cli.StringFlag{
		Name:  "end",
		Usage: "End of the pause. Leave empty to add an ongoing pause to the current session",
	}

	emailFlag = &cli.StringFlag{
		Name:    "email",
		Aliases: []string{"e"},
		Usage:   "Email address of the account. You will be prompted for it when omitted",
	}

	offlineFlag = &cli.BoolFlag{
		Name:  "offline",
		Usage: "Use the cached exchange rates instead of fetching the latest ones",
	}

	fromFlag = &cli.StringFlag{
		Name:  "from",
		Usage: "First day of the reporting period (defaults to 6 days ago)",
	}

	toFlag = &cli.StringFlag{
		Name:  "to",
		Usage: "Last day of the reporting period (defaults to today)",
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Do not ask for confirmation",
	}
)

// globalFlags apply to every command.
var globalFlags = []cli.Flag{
	storeFlag,
	noColorFlag,
}
