package app

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/cashtimer/internal/models"
	"github.com/ayoisaiah/cashtimer/internal/timeutil"
	"github.com/ayoisaiah/cashtimer/internal/ui"
	"github.com/ayoisaiah/cashtimer/ledger"
	"github.com/ayoisaiah/cashtimer/report"
)

const (
	noSessionsMsg = "No sessions found: start one with 'cashtimer start'"
)

// localize converts the timestamps of the sessions to local time so they are
// displayed and grouped by the user's calendar.
func localize(sessions []*models.Session) []*models.Session {
	for _, sess := range sessions {
		sess.StartTime = sess.StartTime.Local()

		if sess.EndTime != nil {
			sess.EndTime = models.TimePtr(sess.EndTime.Local())
		}

		for i := range sess.Pauses {
			p := &sess.Pauses[i]
			p.StartTime = p.StartTime.Local()

			if p.EndTime != nil {
				p.EndTime = models.TimePtr(p.EndTime.Local())
			}
		}
	}

	return sessions
}

// sortedSessions returns every session in the configured order.
func (e *env) sortedSessions() []*models.Session {
	sessions := localize(e.ledger.Sessions())

	if e.cfg.Display.SortOrder != ledger.Ascending {
		slices.Reverse(sessions)
	}

	return sessions
}

// printSessionsTable prints a session table to the command-line.
func printSessionsTable(
	w io.Writer,
	sessions []*models.Session,
	symbol string,
	now time.Time,
) {
	tableBody := make([][]string, len(sessions))

	for i, sess := range sessions {
		endDate := ""
		if sess.EndTime != nil {
			endDate = sess.EndTime.Format(ui.DateTimeFormat)
		}

		tableBody[i] = []string{
			strconv.Itoa(i + 1),
			sess.ID,
			sess.StartTime.Format(ui.DateTimeFormat),
			endDate,
			timeutil.FormatDuration(sess.ActiveDuration(now)),
			strconv.Itoa(len(sess.Pauses)),
			ui.Money(symbol, sess.HourlyRate),
			ui.Money(symbol, sess.ComputeEarnings(now)),
			ui.SessionStatus(sess),
		}
	}

	tableBody = append([][]string{
		{"#", "ID", "START DATE", "END DATE", "WORKED", "PAUSES", "RATE", "EARNED", "STATUS"},
	}, tableBody...)

	ui.PrintTable(tableBody, w)
}

// printPausesTable lists the pauses of a session.
func printPausesTable(w io.Writer, sess *models.Session, now time.Time) {
	tableBody := [][]string{{"PAUSE ID", "START", "END", "LENGTH"}}

	for i := range sess.Pauses {
		p := &sess.Pauses[i]

		end := "ongoing"
		if p.EndTime != nil {
			end = p.EndTime.Local().Format(ui.DateTimeFormat)
		}

		tableBody = append(tableBody, []string{
			p.ID,
			p.StartTime.Local().Format(ui.DateTimeFormat),
			end,
			ui.HumanDuration(p.Duration(sess.EffectiveEnd(now))),
		})
	}

	ui.PrintTable(tableBody, w)
}

// listAction handles the list command and prints a table of all the
// sessions.
func listAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		sessions := e.sortedSessions()

		if ctx.Bool("json") {
			b, err := json.Marshal(sessions)
			if err != nil {
				return err
			}

			fmt.Fprintln(e.out, string(b))

			return nil
		}

		if len(sessions) == 0 {
			pterm.Info.Println(noSessionsMsg)
			return nil
		}

		printSessionsTable(e.out, sessions, e.rateSymbol(), e.ledger.Now())

		return nil
	})
}

// showAction prints a single session together with its pauses.
func showAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		id, err := requireArgs(ctx, "session-id")
		if err != nil {
			return err
		}

		sess, err := e.ledger.Session(id[0])
		if err != nil {
			return err
		}

		now := e.ledger.Now()

		printSessionsTable(e.out, localize([]*models.Session{sess}), e.rateSymbol(), now)

		if len(sess.Pauses) > 0 {
			printPausesTable(e.out, sess, now)
		}

		return nil
	})
}

// weeksAction handles the weeks command which totals the sessions of each
// week.
func weeksAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		now := e.ledger.Now()
		groups := ledger.GroupByWeek(
			localize(e.ledger.Sessions()),
			e.cfg.Display.WeekStart,
			e.cfg.Display.SortOrder,
			now,
		)

		if len(groups) == 0 {
			pterm.Info.Println(noSessionsMsg)
			return nil
		}

		symbol := e.rateSymbol()

		header := []string{"WEEK", "SESSIONS", "WORKED", "EARNED"}
		if e.showsConversion() {
			header = append(header, e.cfg.Rate.DisplayCurrency)
		}

		tableBody := [][]string{header}

		for i := range groups {
			g := &groups[i]

			row := []string{
				g.Label(),
				strconv.Itoa(len(g.Sessions)),
				ui.HumanDuration(g.Duration),
				ui.Money(symbol, g.Earnings),
			}

			if e.showsConversion() {
				converted, _ := e.displayAmount(g.Earnings)
				row = append(row, converted)
			}

			tableBody = append(tableBody, row)
		}

		ui.PrintTable(tableBody, e.out)

		return nil
	})
}

// weekGroup returns the group that is the given number of weeks before the
// current one. Weeks without sessions yield an empty group.
func weekGroup(
	sessions []*models.Session,
	weekStart time.Weekday,
	weeksAgo int,
	now time.Time,
) ledger.WeekGroup {
	start := timeutil.WeekStart(now, weekStart).AddDate(0, 0, -7*weeksAgo)

	groups := ledger.GroupByWeek(sessions, weekStart, ledger.Ascending, now)
	for _, g := range groups {
		if g.Start.Equal(start) {
			return g
		}
	}

	return ledger.WeekGroup{Start: start}
}

// exportAction handles the export command which copies an invoice for one
// week to the clipboard.
func exportAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		weeksAgo := ctx.Int("week")
		if weeksAgo < 0 {
			return fmt.Errorf("--week must not be negative, got %d", weeksAgo)
		}

		now := e.ledger.Now()
		group := weekGroup(
			localize(e.ledger.Sessions()),
			e.cfg.Display.WeekStart,
			weeksAgo,
			now.Local(),
		)

		text := ledger.ExportForInvoicing(group, e.rateSymbol(), now)

		if ctx.Bool("print") {
			fmt.Fprintln(e.out, text)
			return nil
		}

		err := report.Export(e.sink, e.notifier, text)
		if err != nil {
			return fmt.Errorf("copying invoice to the clipboard: %w", err)
		}

		pterm.Success.Printfln(
			"Invoice for %s (%d sessions) copied to the clipboard",
			group.Label(),
			len(group.Sessions),
		)

		return nil
	})
}
