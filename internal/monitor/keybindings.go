package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Key bindings as constants for consistency.
const (
	KeyQuit    = "q"
	KeyQuitAlt = "ctrl+c"
	KeyQuitEsc = "esc"
	KeyRedraw  = "ctrl+l"
)

// keyMap holds the dashboard's bindings. The dashboard is read-only, so the
// only actions are leaving and forcing a full repaint.
type keyMap struct {
	Quit   key.Binding
	Redraw key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys(KeyQuit, KeyQuitAlt, KeyQuitEsc),
			key.WithHelp("q", "quit"),
		),
		Redraw: key.NewBinding(
			key.WithKeys(KeyRedraw),
			key.WithHelp("ctrl+l", "redraw"),
		),
	}
}

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, m.keys.Redraw):
		return true, tea.ClearScreen
	}
	return false, nil
}

// FooterHelp is the one-line key hint shown below the dashboard when it fits.
func (m Model) FooterHelp() string {
	q := m.keys.Quit.Help()
	r := m.keys.Redraw.Help()
	return q.Key + " " + q.Desc + "  " + r.Key + " " + r.Desc
}
