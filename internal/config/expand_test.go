package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"standalone tilde", "~", home},
		{"tilde path", "~/logs/aimon.log", filepath.Join(home, "logs/aimon.log")},
		{"absolute path unchanged", "/var/log/aimon.log", "/var/log/aimon.log"},
		{"other user unchanged", "~root/aimon.log", "~root/aimon.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandTilde(tt.input))
		})
	}
}

func TestExpand(t *testing.T) {
	t.Setenv("USER", "ops")
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	hostname, err := os.Hostname()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no variables", "/tmp/aimon.log", "/tmp/aimon.log"},
		{"HOSTNAME expands", "/var/log/aimon-${HOSTNAME}.log", "/var/log/aimon-" + hostname + ".log"},
		{"USER expands", "/tmp/${USER}/aimon.log", "/tmp/ops/aimon.log"},
		{"HOME expands", "${HOME}/aimon.log", home + "/aimon.log"},
		{"tilde expands after variables", "~/aimon-${USER}.log", filepath.Join(home, "aimon-ops.log")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Expand(tt.input))
		})
	}
}

func TestUsernameFallbacks(t *testing.T) {
	tests := []struct {
		name                   string
		user, logname, winUser string
		want                   string
	}{
		{"USER first", "ops", "svc", "win", "ops"},
		{"LOGNAME next", "", "svc", "win", "svc"},
		{"USERNAME last", "", "", "win", "win"},
		{"placeholder", "", "", "", "user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("USER", tt.user)
			t.Setenv("LOGNAME", tt.logname)
			t.Setenv("USERNAME", tt.winUser)
			assert.Equal(t, tt.want, username())
		})
	}
}
