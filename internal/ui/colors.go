package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorMuted   lipgloss.Color = "8" // Gray (bright black)
)

// GradientColors cycles the spinner glyph from cyan to green.
var GradientColors = []lipgloss.Color{"6", "14", "10", "2"}
