package sources

import (
	"context"
	stderrors "errors"
	"fmt"
	osexec "os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pl247/aimon/internal/errors"
	"github.com/pl247/aimon/internal/exec"
	"github.com/pl247/aimon/internal/logger"
	"github.com/pl247/aimon/internal/monitor"
)

const procNetDev = `Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
    lo:    1000      10    0    0    0     0          0         0     1000      10    0    0    0     0       0          0
  eth0:    2000      20    0    0    0     0          0         0     3000      30    0    0    0     0       0          0
`

// fakeRunner answers by command line and records what ran.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.calls = append(f.calls, line)
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	out, ok := f.outputs[name]
	if !ok {
		return nil, fmt.Errorf("unexpected command %q", line)
	}
	return []byte(out), nil
}

func newTestCommand(r exec.Runner) (*Command, *logger.BufferLogger) {
	log := logger.NewBufferLogger()
	c := NewCommand(r, log)
	c.readFile = func(path string) ([]byte, error) {
		switch path {
		case ProductNamePath:
			return []byte("UCSC-C240-M7SX\n"), nil
		case ProcNetDevPath:
			return []byte(procNetDev), nil
		}
		return nil, errors.Unavailable(path, stderrors.New("no such file"))
	}
	c.addrs = func(context.Context) (map[string][]string, error) {
		return map[string][]string{"lo": {"127.0.0.1/8"}, "eth0": {"10.0.0.5/24"}}, nil
	}
	return c, log
}

func TestCommand_ServerType(t *testing.T) {
	c, _ := newTestCommand(&fakeRunner{})
	name, err := c.ServerType(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "UCSC-C240-M7SX", name)
}

func TestCommand_ServerTypeMissing(t *testing.T) {
	c, _ := newTestCommand(&fakeRunner{})
	c.readFile = func(path string) ([]byte, error) {
		return nil, errors.Unavailable(path, stderrors.New("permission denied"))
	}
	_, err := c.ServerType(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrSource))

	c.readFile = func(string) ([]byte, error) { return []byte("  \n"), nil }
	_, err = c.ServerType(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrSource))
}

func TestCommand_Utilities(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		"lscpu":      "Model name: Intel(R) Xeon(R) Gold 6430\nCore(s) per socket: 32\nSocket(s): 2\n",
		"mpstat":     "Average:     all    1.00    0.00    1.00   98.00\n",
		"free":       "Mem:  503Gi  21Gi  470Gi  9.0Mi  12Gi  478Gi\n",
		"nvidia-smi": "NVIDIA L40S, 1024, 40, 46068\n",
	}}
	c, _ := newTestCommand(r)
	ctx := context.Background()

	info, err := c.CPUInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, monitor.CPUInfo{Model: "Intel(R) Xeon(R) Gold 6430", Sockets: "2", CoresPerSocket: "32"}, info)

	busy, err := c.CPU(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, busy, 1e-9)

	mem, err := c.Memory(ctx)
	require.NoError(t, err)
	assert.Equal(t, "478Gi", mem.Available)

	gpus, err := c.GPU(ctx)
	require.NoError(t, err)
	require.Len(t, gpus, 1)
	assert.Equal(t, 40, gpus[0].UtilizationPct)

	assert.Equal(t, []string{
		"lscpu",
		"mpstat 1 1",
		"free -h",
		"nvidia-smi --query-gpu=gpu_name,memory.used,utilization.gpu,memory.total --format=csv,noheader,nounits",
	}, r.calls)
}

func TestCommand_UtilityFailurePropagates(t *testing.T) {
	r := &fakeRunner{errs: map[string]error{
		"mpstat": errors.WrapWithCode(osexec.ErrNotFound, errors.ErrSource, "mpstat not found", ""),
		"free":   errors.WrapWithCode(context.DeadlineExceeded, errors.ErrSource, "free did not finish in time", ""),
	}}
	c, _ := newTestCommand(r)

	_, err := c.CPU(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrSource))
	_, err = c.Memory(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrSource))
}

func TestCommand_GPUAbsentIsNotAnError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"utility missing", errors.WrapWithCode(osexec.ErrNotFound, errors.ErrSource, "nvidia-smi not found", "")},
		{"driver failure", errors.WrapWithCode(fmt.Errorf("driver: %w", &osexec.ExitError{}), errors.ErrSource, "nvidia-smi exited with status 9", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, log := newTestCommand(&fakeRunner{errs: map[string]error{"nvidia-smi": tt.err}})
			gpus, err := c.GPU(context.Background())
			assert.NoError(t, err)
			assert.Empty(t, gpus)
			assert.True(t, log.HasLevel("debug"))
		})
	}
}

func TestCommand_GPUTimeoutIsAnError(t *testing.T) {
	timeout := errors.WrapWithCode(context.DeadlineExceeded, errors.ErrSource, "nvidia-smi did not finish in time", "")
	c, _ := newTestCommand(&fakeRunner{errs: map[string]error{"nvidia-smi": timeout}})

	_, err := c.GPU(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrSource))
}

func TestCommand_Network(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	orig := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = orig })

	c, _ := newTestCommand(&fakeRunner{})
	sample, err := c.Network(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fixed, sample.Timestamp)
	assert.Equal(t, monitor.InterfaceCounters{BytesSent: 3000, BytesRecv: 2000}, sample.Counters["eth0"])
	assert.Equal(t, []string{"10.0.0.5/24"}, sample.Addresses["eth0"])
}

func TestCommand_NetworkAddressFailure(t *testing.T) {
	c, _ := newTestCommand(&fakeRunner{})
	c.addrs = func(context.Context) (map[string][]string, error) {
		return nil, errors.Unavailable("interface addresses", stderrors.New("netlink"))
	}
	_, err := c.Network(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrSource))
}
