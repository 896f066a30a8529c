package timer

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	togglePause key.Binding
	stop        key.Binding
	quit        key.Binding
}

var defaultKeymap = keymap{
	togglePause: key.NewBinding(
		key.WithKeys("p", " "),
		key.WithHelp("p", "pause/resume"),
	),
	stop: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stop"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit (keeps running)"),
	),
}

func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.togglePause, k.stop, k.quit}
}

func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
