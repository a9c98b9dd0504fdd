package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer is a bytes.Buffer that tolerates the animation goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "Sampling node1")
	assert.Equal(t, "Sampling node1", s.Label())
	assert.Equal(t, SpinnerPending, s.State())
}

func TestSpinnerStartStop(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out, "Sampling")

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	time.Sleep(2 * FrameInterval)
	s.Stop()

	// Stop leaves the state alone
	assert.Equal(t, SpinnerInProgress, s.State())
	assert.Contains(t, out.String(), "Sampling...")
}

func TestSpinnerFinish(t *testing.T) {
	tests := []struct {
		name      string
		finish    func(*Spinner)
		wantState SpinnerState
		wantMark  string
	}{
		{"success", (*Spinner).Success, SpinnerSuccess, SymbolSuccess},
		{"fail", (*Spinner).Fail, SpinnerFailed, SymbolFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out syncBuffer
			s := NewSpinner(&out, "Sampling")

			s.Start()
			tt.finish(s)

			assert.Equal(t, tt.wantState, s.State())
			output := out.String()
			assert.Contains(t, output, tt.wantMark)
			assert.True(t, strings.HasSuffix(output, "\n"), "final line should end with a newline")
		})
	}
}

func TestSpinnerFinishWithoutStart(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out, "Sampling")

	assert.NotPanics(t, s.Success)
	assert.Contains(t, out.String(), "Sampling 0.00s")
}

func TestSpinnerSetLabel(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "Sampling")
	s.SetLabel("Sampling node1")
	assert.Equal(t, "Sampling node1", s.Label())
}

func TestSpinnerDoubleStartStop(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "Sampling")

	s.Start()
	s.Start()
	s.Stop()
	assert.NotPanics(t, s.Stop)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Millisecond, "0.03s"},
		{240 * time.Millisecond, "0.2s"},
		{1500 * time.Millisecond, "1.5s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}
