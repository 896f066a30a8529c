// Package report tells the user what happened: terminal messages, desktop
// notifications, the clipboard and the post-session hook
package report

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/cashtimer/internal/ui"
	"github.com/ayoisaiah/cashtimer/ledger"
)

func Error(err error) {
	pterm.Error.Println(err)
}

func Fatal(err error) tea.Cmd {
	pterm.Error.Println(err)
	return tea.Quit
}

func Quit(err error) {
	pterm.Error.Println(err)
	os.Exit(1)
}

// Notifier shows desktop notifications when enabled.
type Notifier struct {
	notify  func(title, message, icon string) error
	Enabled bool
}

func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		Enabled: enabled,
		notify:  beeep.Notify,
	}
}

// Notify shows a notification. Failures are logged since a missing
// notification daemon should not fail the command.
func (n *Notifier) Notify(title, message string) {
	if n == nil || !n.Enabled {
		return
	}

	err := n.notify(title, message, "")
	if err != nil {
		slog.Warn("desktop notification failed", slog.Any("error", err))
	}
}

// Celebrate congratulates the user on a finished session.
func (n *Notifier) Celebrate(s ledger.Summary, symbol string) {
	n.Notify(
		"Session complete",
		fmt.Sprintf(
			"You earned %s in %s",
			ui.Money(symbol, s.Earnings),
			ui.HumanDuration(s.Active),
		),
	)
}

// PrintSummary writes the breakdown of a stopped session.
func PrintSummary(w io.Writer, s ledger.Summary, symbol string) {
	data := [][]string{
		{"SESSION", s.ID},
		{"STARTED", s.StartTime.Local().Format(ui.DateTimeFormat)},
		{"ENDED", s.EndTime.Local().Format(ui.DateTimeFormat)},
		{"BREAKS", fmt.Sprintf("%s (%d)", ui.HumanDuration(s.Break), s.Pauses)},
		{"WORKED", ui.HumanDuration(s.Active)},
		{"RATE", ui.Money(symbol, s.HourlyRate) + "/hr"},
		{"EARNED", ui.Green(ui.Money(symbol, s.Earnings))},
	}

	ui.PrintTable(data, w)
}

// RunHook executes the user's post-session command with details of the
// session in its environment.
func RunHook(sessionCmd string, s ledger.Summary) error {
	if sessionCmd == "" {
		return nil
	}

	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		return fmt.Errorf("unable to parse settings.cmd option: %w", err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	cmd := exec.Command(cmdSlice[0], cmdSlice[1:]...)
	cmd.Env = append(
		os.Environ(),
		"CASHTIMER_SESSION_ID="+s.ID,
		"CASHTIMER_EARNINGS="+s.Earnings.StringFixed(2),
		fmt.Sprintf("CASHTIMER_ACTIVE_SECONDS=%d", int64(s.Active.Seconds())),
	)

	return cmd.Run()
}
