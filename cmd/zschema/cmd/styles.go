package cmd

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorAccent  = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
)

// styles are bound to one writer so colors are only emitted to terminals.
type styles struct {
	ok    lipgloss.Style
	fail  lipgloss.Style
	path  lipgloss.Style
	name  lipgloss.Style
	muted lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		ok:    r.NewStyle().Foreground(colorSuccess).Bold(true),
		fail:  r.NewStyle().Foreground(colorError).Bold(true),
		path:  r.NewStyle().Foreground(colorAccent),
		name:  r.NewStyle().Bold(true).Width(16),
		muted: r.NewStyle().Foreground(colorMuted),
	}
}
