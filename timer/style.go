package timer

import "github.com/charmbracelet/lipgloss"

type style struct {
	base      lipgloss.Style
	title     lipgloss.Style
	clock     lipgloss.Style
	earnings  lipgloss.Style
	converted lipgloss.Style
	running   lipgloss.Style
	paused    lipgloss.Style
	hint      lipgloss.Style
	err       lipgloss.Style
}

func newStyle(dark bool) style {
	accent := lipgloss.Color("#2E7D32")
	muted := lipgloss.Color("#616161")

	if dark {
		accent = lipgloss.Color("#B0DB43")
		muted = lipgloss.Color("#9E9E9E")
	}

	return style{
		base:      lipgloss.NewStyle().Padding(1, 2),
		title:     lipgloss.NewStyle().Bold(true),
		clock:     lipgloss.NewStyle().Bold(true).MarginRight(2),
		earnings:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		converted: lipgloss.NewStyle().Foreground(muted),
		running:   lipgloss.NewStyle().Foreground(accent),
		paused:    lipgloss.NewStyle().Foreground(lipgloss.Color("#12EAEA")),
		hint:      lipgloss.NewStyle().Foreground(muted),
		err:       lipgloss.NewStyle().Foreground(lipgloss.Color("#E53935")),
	}
}
