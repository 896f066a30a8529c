package timer

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"
)

// handleTick refreshes the snapshot of the session. The view closes when the
// session was stopped or deleted from this view.
func (t *Timer) handleTick() (tea.Model, tea.Cmd) {
	tick, ok := t.tracker.Tick()
	if !ok {
		return t, tea.Quit
	}

	t.tick = tick

	return t, t.scheduleTick()
}

func (t *Timer) togglePause() {
	var err error

	if t.tick.Paused {
		_, err = t.tracker.Resume(t.ctx, t.tick.SessionID)
	} else {
		_, err = t.tracker.Pause(t.ctx, t.tick.SessionID)
	}

	t.err = err

	if tick, ok := t.tracker.Tick(); ok {
		t.tick = tick
	}
}

func (t *Timer) stop() tea.Cmd {
	sess, err := t.tracker.Stop(t.ctx, t.tick.SessionID)
	if err != nil {
		t.err = err
		return nil
	}

	t.stopped = sess

	return tea.Quit
}

func (t *Timer) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	slog.Debug(spew.Sdump(msg))

	switch {
	case key.Matches(msg, defaultKeymap.togglePause):
		t.togglePause()
		return t, nil

	case key.Matches(msg, defaultKeymap.stop):
		return t, t.stop()

	case key.Matches(msg, defaultKeymap.quit):
		return t, tea.Quit
	}

	return t, nil
}

func (t *Timer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return t.handleTick()

	case tea.KeyMsg:
		return t.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		t.help.Width = msg.Width
		return t, nil
	}

	return t, nil
}
