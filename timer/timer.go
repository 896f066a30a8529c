// Package timer is the live terminal view of the running session. It shows
// the elapsed active time and the money earned so far, refreshed on every
// tick.
package timer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayoisaiah/cashtimer/internal/models"
	"github.com/ayoisaiah/cashtimer/ledger"
)

var errNoSession = errors.New("no session is running: start one with 'cashtimer start'")

// Tracker is the part of the ledger the live view drives.
type Tracker interface {
	Tick() (ledger.Tick, bool)
	Current() (*models.Session, bool)
	Pause(ctx context.Context, id string) (*models.Session, error)
	Resume(ctx context.Context, id string) (*models.Session, error)
	Stop(ctx context.Context, id string) (*models.Session, error)
}

// RateSource provides the latest exchange rates.
type RateSource interface {
	Table() *models.RateTable
}

// Options controls what the live view shows.
type Options struct {
	RateCurrency    string
	DisplayCurrency string
	TickInterval    time.Duration
	DarkTheme       bool
}

type tickMsg time.Time

// Timer is the bubbletea model of the live view.
type Timer struct {
	ctx     context.Context
	tracker Tracker
	rates   RateSource
	err     error
	stopped *models.Session
	help    help.Model
	style   style
	opts    Options
	tick    ledger.Tick
	hourly  string
}

// New returns a live view of the current session.
func New(
	ctx context.Context,
	tracker Tracker,
	rates RateSource,
	opts Options,
) (*Timer, error) {
	sess, ok := tracker.Current()
	if !ok {
		return nil, errNoSession
	}

	if opts.TickInterval <= 0 {
		opts.TickInterval = 100 * time.Millisecond
	}

	t := &Timer{
		ctx:     ctx,
		tracker: tracker,
		rates:   rates,
		opts:    opts,
		help:    help.New(),
		style:   newStyle(opts.DarkTheme),
		hourly:  sess.HourlyRate.StringFixed(2),
	}

	t.tick, _ = tracker.Tick()

	return t, nil
}

// Stopped returns the session if it was stopped from the live view.
func (t *Timer) Stopped() *models.Session {
	return t.stopped
}

// Err returns the last error shown in the view.
func (t *Timer) Err() error {
	return t.err
}

func (t *Timer) Init() tea.Cmd {
	return t.scheduleTick()
}

func (t *Timer) scheduleTick() tea.Cmd {
	return tea.Tick(t.opts.TickInterval, func(at time.Time) tea.Msg {
		return tickMsg(at)
	})
}

// Run shows the live view until the session is stopped or the user quits.
// It returns the stopped session, or nil if the session is still running.
func Run(
	ctx context.Context,
	tracker Tracker,
	rates RateSource,
	opts Options,
) (*models.Session, error) {
	t, err := New(ctx, tracker, rates, opts)
	if err != nil {
		return nil, err
	}

	final, err := tea.NewProgram(t, tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, err
	}

	if m, ok := final.(*Timer); ok {
		slog.Debug("live view closed", slog.Bool("stopped", m.stopped != nil))
		return m.stopped, nil
	}

	return nil, nil
}
