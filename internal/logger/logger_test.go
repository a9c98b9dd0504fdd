package logger

import (
	"bytes"
	"io"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLog points the standard logger at a buffer for one test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestEnvLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		debug string
		emit  func(Logger)
		want  string
	}{
		{"debug enabled", "1", func(l Logger) { l.Debug("baseline took %dms", 12) }, "[engine] DEBUG: baseline took 12ms"},
		{"debug any value", "yes", func(l Logger) { l.Debug("tick") }, "[engine] DEBUG: tick"},
		{"debug disabled", "", func(l Logger) { l.Debug("tick") }, ""},
		{"info", "", func(l Logger) { l.Info("dashboard started") }, "[engine] dashboard started"},
		{"warn", "", func(l Logger) { l.Warn("%s degraded: %s", "gpu", "timeout") }, "[engine] WARN: gpu degraded: timeout"},
		{"error", "", func(l Logger) { l.Error("render failed") }, "[engine] ERROR: render failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			t.Setenv(DebugEnv, tt.debug)

			tt.emit(NewEnvLogger("[engine]"))

			if tt.want == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestNoop(t *testing.T) {
	buf := captureLog(t)

	l := Noop()
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	assert.Empty(t, buf.String())
}

func TestRedirect(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	tests := []struct {
		name       string
		file       io.Writer
		stderrTTY  bool
		wantSink   Sink
		wantWriter io.Writer
	}{
		{"stderr is a pipe", nil, false, SinkStderr, os.Stderr},
		{"stderr is the terminal", nil, true, SinkDiscard, io.Discard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSink, Redirect(tt.file, tt.stderrTTY))
			assert.Equal(t, tt.wantWriter, log.Writer())
		})
	}

	t.Run("file wins", func(t *testing.T) {
		var file bytes.Buffer
		assert.Equal(t, SinkFile, Redirect(&file, true))
		log.Print("nvidia-smi missing")
		assert.Contains(t, file.String(), "nvidia-smi missing")
	})
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()
	assert.False(t, l.HasLevel("warn"))

	l.Debug("tick %d", 1)
	l.Warn("%s degraded: %s", "memory", "free not found")

	require.Len(t, l.Messages, 2)
	assert.Equal(t, LogMessage{Level: "debug", Message: "tick 1"}, l.Messages[0])
	assert.Equal(t, LogMessage{Level: "warn", Message: "memory degraded: free not found"}, l.Messages[1])
	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))

	snap := l.Snapshot()
	snap[1].Message = "changed"
	assert.Equal(t, "memory degraded: free not found", l.Snapshot()[1].Message, "snapshot is a copy")

	l.Clear()
	assert.Empty(t, l.Messages)
}

func TestImplementations(t *testing.T) {
	var _ Logger = NewEnvLogger("")
	var _ Logger = Noop()
	var _ Logger = NewBufferLogger()
}
