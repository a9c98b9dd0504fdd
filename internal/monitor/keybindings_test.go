package monitor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestKeyConstants(t *testing.T) {
	assert.Equal(t, "q", KeyQuit)
	assert.Equal(t, "ctrl+c", KeyQuitAlt)
	assert.Equal(t, "esc", KeyQuitEsc)
	assert.Equal(t, "ctrl+l", KeyRedraw)
}

func TestHandleKeyMsg(t *testing.T) {
	tests := []struct {
		name     string
		msg      tea.KeyMsg
		handled  bool
		quitting bool
	}{
		{"quit", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, true, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, true, true},
		{"redraw", tea.KeyMsg{Type: tea.KeyCtrlL}, true, false},
		{"unbound", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Model{keys: defaultKeyMap()}
			handled, _ := m.HandleKeyMsg(tt.msg)
			assert.Equal(t, tt.handled, handled)
			assert.Equal(t, tt.quitting, m.quitting)
		})
	}
}

func TestFooterHelp(t *testing.T) {
	m := Model{keys: defaultKeyMap()}
	assert.Equal(t, "q quit  ctrl+l redraw", m.FooterHelp())
}
