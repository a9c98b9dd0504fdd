// Package ui provides line-oriented terminal output for commands that do
// not take over the screen, such as aimon snapshot.
//
// Colors are ANSI codes so they degrade well on basic terminals; lipgloss
// drops them entirely when the output is not a TTY.
package ui
