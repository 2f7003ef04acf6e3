package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Confirm is a yes/no question rendered as two buttons.
type Confirm struct {
	question    string
	focused     bool // true = yes, false = no
	done        bool
	answer      bool
	interrupted bool
	width       int
	keys        KeyMap
	styles      Styles
}

// NewConfirm creates a confirmation model with the default answer focused.
func NewConfirm(question string, defaultYes bool, styles Styles) Confirm {
	return Confirm{
		question: question,
		focused:  defaultYes,
		width:    60,
		keys:     DefaultKeyMap(),
		styles:   styles,
	}
}

// Focused returns true if yes is focused, false if no is focused.
func (c Confirm) Focused() bool {
	return c.focused
}

// Done reports whether the operator answered or aborted.
func (c Confirm) Done() bool {
	return c.done
}

// Answer returns the chosen answer.
func (c Confirm) Answer() bool {
	return c.answer
}

// Interrupted reports whether the operator pressed ctrl+c.
func (c Confirm) Interrupted() bool {
	return c.interrupted
}

// Init implements tea.Model.
func (c Confirm) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (c Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return c.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		if msg.Width > 0 && msg.Width < c.width {
			c.width = msg.Width
		}
	}
	return c, nil
}

func (c Confirm) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, c.keys.Interrupt):
		c.done = true
		c.interrupted = true
		return c, tea.Quit
	case key.Matches(msg, c.keys.Left, c.keys.VimLeft):
		c.focused = true
	case key.Matches(msg, c.keys.Right, c.keys.VimRight):
		c.focused = false
	case key.Matches(msg, c.keys.Select):
		return c.finish(c.focused)
	case key.Matches(msg, c.keys.Accept):
		return c.finish(true)
	case key.Matches(msg, c.keys.Reject):
		return c.finish(false)
	}
	return c, nil
}

func (c Confirm) finish(answer bool) (tea.Model, tea.Cmd) {
	c.done = true
	c.answer = answer
	return c, tea.Quit
}

// View renders the question and the buttons.
func (c Confirm) View() string {
	if c.done {
		return ""
	}

	yesStyle, noStyle := c.styles.Button, c.styles.Button
	if c.focused {
		yesStyle = c.styles.ButtonActive
	} else {
		noStyle = c.styles.ButtonActive
	}

	question := c.styles.Paragraph.Width(c.width).Render(c.question)
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, yesStyle.Render("Yes"), "  ", noStyle.Render("No"))
	help := c.styles.Help.Render("←/→ choose • enter select • y/n answer")

	return lipgloss.JoinVertical(lipgloss.Left, question, "", buttons, help) + "\n"
}
