package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/cashtimer/internal/models"
	"github.com/ayoisaiah/cashtimer/internal/timeutil"
	"github.com/ayoisaiah/cashtimer/internal/ui"
	"github.com/ayoisaiah/cashtimer/ledger"
	"github.com/ayoisaiah/cashtimer/report"
	"github.com/ayoisaiah/cashtimer/timer"
)

var errNothingRunning = errors.New(
	"no session is running: start one with 'cashtimer start'",
)

// current returns the running session or errNothingRunning.
func (e *env) current() (*models.Session, error) {
	sess, ok := e.ledger.Current()
	if !ok {
		return nil, errNothingRunning
	}

	return sess, nil
}

// startAction handles the start command which begins a new session at the
// configured hourly rate.
func startAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		sess, err := e.ledger.StartAt(
			ctx.Context,
			e.cfg.Rate.Hourly,
			e.cfg.CLI.StartTime,
		)
		if err != nil {
			return err
		}

		pterm.Success.Printfln(
			"Session %s started at %s (%s/hr)",
			sess.ID,
			sess.StartTime.Local().Format(ui.DateTimeFormat),
			ui.Money(e.rateSymbol(), sess.HourlyRate),
		)

		return nil
	})
}

// pauseAction handles the pause command.
func pauseAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		sess, err := e.current()
		if err != nil {
			return err
		}

		_, err = e.ledger.Pause(ctx.Context, sess.ID)
		if err != nil {
			return err
		}

		pterm.Info.Println("Session paused")

		return nil
	})
}

// resumeAction handles the resume command.
func resumeAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		sess, err := e.current()
		if err != nil {
			return err
		}

		_, err = e.ledger.Resume(ctx.Context, sess.ID)
		if err != nil {
			return err
		}

		pterm.Info.Println("Session resumed")

		return nil
	})
}

// stopAction handles the stop command.
func stopAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		sess, err := e.current()
		if err != nil {
			return err
		}

		stopped, err := e.ledger.Stop(ctx.Context, sess.ID)
		if err != nil {
			return err
		}

		return e.finish(stopped)
	})
}

// finish reports a stopped session: the summary table, a notification and
// the user's hook command.
func (e *env) finish(sess *models.Session) error {
	summary := ledger.Summarize(sess, e.ledger.Now())
	symbol := e.rateSymbol()

	report.PrintSummary(e.out, summary, symbol)
	e.notifier.Celebrate(summary, symbol)

	err := report.RunHook(e.cfg.Settings.Cmd, summary)
	if err != nil {
		return fmt.Errorf("session command failed: %w", err)
	}

	return nil
}

// statusAction handles the status command and prints the state of the
// current session.
func statusAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		tick, ok := e.ledger.Tick()
		if !ok {
			pterm.Info.Println("No session is running")
			return nil
		}

		sess, err := e.current()
		if err != nil {
			return err
		}

		now := e.ledger.Now()

		data := [][]string{
			{"SESSION", sess.ID},
			{"STATUS", ui.SessionStatus(sess)},
			{"STARTED", sess.StartTime.Local().Format(ui.DateTimeFormat)},
			{"WORKED", timeutil.FormatDuration(sess.ActiveDuration(now))},
			{"BREAKS", ui.HumanDuration(sess.BreakDuration(now))},
			{"RATE", ui.Money(e.rateSymbol(), sess.HourlyRate) + "/hr"},
			{"EARNED", ui.Money(e.rateSymbol(), tick.Earnings)},
		}

		if converted, ok := e.displayAmount(tick.Earnings); ok {
			data = append(data, []string{e.cfg.Rate.DisplayCurrency, converted})
		}

		ui.PrintTable(data, e.out)

		return nil
	})
}

// watchAction opens the live view for the current session.
func watchAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		stopRates := e.rates.Start(ctx.Context)
		defer stopRates()

		ui.DarkTheme = e.cfg.Display.DarkTheme

		stopped, err := timer.Run(ctx.Context, e.ledger, e.rates, timer.Options{
			RateCurrency:    e.cfg.Rate.Currency,
			DisplayCurrency: e.cfg.Rate.DisplayCurrency,
			TickInterval:    e.cfg.Display.TickInterval,
			DarkTheme:       e.cfg.Display.DarkTheme,
		})
		if err != nil {
			return err
		}

		if stopped == nil {
			slog.Debug("live view closed without stopping the session")
			return nil
		}

		return e.finish(stopped)
	})
}

// defaultAction opens the live view when a session is running and shows the
// help text otherwise.
func defaultAction(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		return fmt.Errorf("unknown command %q", ctx.Args().First())
	}

	running := false

	err := withLedger(ctx, func(e *env) error {
		_, running = e.ledger.Current()
		return nil
	})
	if err != nil {
		return err
	}

	if !running {
		return cli.ShowAppHelp(ctx)
	}

	return watchAction(ctx)
}
