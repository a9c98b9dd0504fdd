package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pl247/aimon/internal/config"
	"github.com/pl247/aimon/internal/errors"
	"github.com/pl247/aimon/internal/logger"
	"github.com/pl247/aimon/internal/monitor"
)

func constant[T any](v T) monitor.Source[T] {
	return monitor.SourceFunc[T](func(context.Context) (T, error) { return v, nil })
}

func failing[T any](err error) monitor.Source[T] {
	return monitor.SourceFunc[T](func(context.Context) (T, error) {
		var zero T
		return zero, err
	})
}

func testEngine() *monitor.Engine {
	return testEngineWithLog(nil)
}

func testEngineWithLog(log logger.Logger) *monitor.Engine {
	network := monitor.NetworkSample{
		Counters:  map[string]monitor.InterfaceCounters{"eth0": {BytesSent: 1000, BytesRecv: 2000}},
		Addresses: map[string][]string{"eth0": {"10.0.0.5/24"}},
	}
	return monitor.NewEngine(monitor.Sources{
		ServerType: constant("UCSC-C240-M7"),
		Hostname:   constant("node1"),
		CPUInfo:    constant(monitor.CPUInfo{Model: "Intel Xeon Gold 6430", Sockets: "2", CoresPerSocket: "32"}),
		CPU:        constant(12.5),
		Memory:     failing[monitor.MemoryUsage](errors.Unavailable("free", fmt.Errorf("exit status 1"))),
		GPU: constant([]monitor.GPUDevice{
			{Name: "NVIDIA L40S", MemoryUsedMiB: 2048, UtilizationPct: 40, MemoryTotalMiB: 46068},
		}),
		Network: constant(network),
	}, monitor.EngineConfig{Vendor: "Cisco", Exclude: monitor.DefaultExclude, RequireIPv4: true}, log)
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, validateFormat(FormatText))
	assert.NoError(t, validateFormat(FormatYAML))

	err := validateFormat("json")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestTakeSnapshot(t *testing.T) {
	snap, err := takeSnapshot(context.Background(), testEngine(), 10*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, "node1", snap.Identity.Hostname)
	assert.Equal(t, 1, snap.Identity.GPUCount)
	assert.True(t, snap.CPU.OK())
	assert.False(t, snap.Memory.OK())
	require.True(t, snap.Network.OK())
	assert.Contains(t, snap.Network.Value, "eth0")
	assert.Nil(t, snap.Tokens)
}

func TestTakeSnapshot_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := takeSnapshot(ctx, testEngine(), time.Hour)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteSnapshot_Text(t *testing.T) {
	snap, err := takeSnapshot(context.Background(), testEngine(), 10*time.Millisecond)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSnapshot(&buf, snap, FormatText, 0))

	out := buf.String()
	assert.Contains(t, out, "node1")
	assert.Contains(t, out, "NVIDIA L40S")
	assert.Contains(t, out, "eth0")
	assert.NotContains(t, out, "\x1b[", "text output should not carry styling")
}

func TestWriteSnapshot_YAML(t *testing.T) {
	snap, err := takeSnapshot(context.Background(), testEngine(), 10*time.Millisecond)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSnapshot(&buf, snap, FormatYAML, 0))

	var doc snapshotDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "node1", doc.Host.Hostname)
	assert.Equal(t, "Cisco", doc.Host.Vendor)
	require.NotNil(t, doc.CPUPercent)
	assert.InDelta(t, 12.5, *doc.CPUPercent, 0.001)
	assert.Nil(t, doc.Memory)
	assert.Contains(t, doc.Errors, "memory")
	require.Len(t, doc.GPUs, 1)
	assert.Equal(t, 40, doc.GPUs[0].UtilizationPct)
	require.Len(t, doc.NICs, 1)
	assert.Equal(t, "eth0", doc.NICs[0].Name)
	assert.Nil(t, doc.Tokens)
}

func TestNewSnapshotDocument_Tokens(t *testing.T) {
	tests := []struct {
		name       string
		tokens     *monitor.Reading[float64]
		wantValue  bool
		wantErrKey bool
	}{
		{"disabled", nil, false, false},
		{"healthy", &monitor.Reading[float64]{Value: 23}, true, false},
		{"down", &monitor.Reading[float64]{Err: errors.Unavailable("metrics endpoint", fmt.Errorf("refused"))}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newSnapshotDocument(monitor.Snapshot{Tokens: tt.tokens})
			assert.Equal(t, tt.wantValue, doc.Tokens != nil)
			_, hasErr := doc.Errors["tokens"]
			assert.Equal(t, tt.wantErrKey, hasErr)
		})
	}
}

func TestProgress_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	spin := startProgress(&buf)
	assert.Nil(t, spin)
	assert.NotPanics(t, func() { stopProgress(spin, nil) })
	assert.Empty(t, buf.String())
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	assert.Equal(t, 0, terminalWidth(&bytes.Buffer{}))
}

func TestSnapshotCommand_LogsStayOffStderr(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Interval = 10 * time.Millisecond
	cfg.LogFile = filepath.Join(t.TempDir(), "aimon.log")
	t.Cleanup(func() { _ = setupNoFile() })

	var stdout, stderr bytes.Buffer
	err := snapshotCommand(context.Background(), cfg, testEngineWithLog(logger.NewEnvLogger("[aimon]")), FormatText, &stdout, &stderr)
	require.NoError(t, err)

	assert.Empty(t, stderr.String())
	assert.Contains(t, stdout.String(), "node1")

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "memory degraded")
}
