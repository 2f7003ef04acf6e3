// Package tui renders installer progress and asks the operator questions
// on the terminal.
package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Catppuccin Mocha inspired).
var (
	ColorPrimary    = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"} // Blue
	ColorSuccess    = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"} // Green
	ColorWarning    = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"} // Yellow
	ColorError      = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"} // Red
	ColorMuted      = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"} // Overlay0
	ColorText       = lipgloss.AdaptiveColor{Light: "#4c4f69", Dark: "#cdd6f4"} // Text
	ColorBackground = lipgloss.AdaptiveColor{Light: "#eff1f5", Dark: "#1e1e2e"} // Base
	ColorSurface    = lipgloss.AdaptiveColor{Light: "#e6e9ef", Dark: "#313244"} // Surface0
)

// Styles contains the lipgloss styles used for terminal output.
type Styles struct {
	Title     lipgloss.Style
	Paragraph lipgloss.Style
	Muted     lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	Help         lipgloss.Style
}

// NewStyles returns styles rendered for w. Colours are dropped when w is
// not a terminal.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),

		Paragraph: r.NewStyle().
			Foreground(ColorText),

		Muted: r.NewStyle().
			Foreground(ColorMuted),

		Success: r.NewStyle().
			Foreground(ColorSuccess),

		Warning: r.NewStyle().
			Foreground(ColorWarning),

		Error: r.NewStyle().
			Foreground(ColorError).
			Bold(true),

		Info: r.NewStyle().
			Foreground(ColorPrimary),

		Button: r.NewStyle().
			Padding(0, 2).
			Foreground(ColorText).
			Background(ColorSurface),

		ButtonActive: r.NewStyle().
			Padding(0, 2).
			Foreground(ColorBackground).
			Background(ColorPrimary).
			Bold(true),

		Help: r.NewStyle().
			Foreground(ColorMuted),
	}
}
