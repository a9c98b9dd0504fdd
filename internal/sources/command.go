package sources

import (
	"context"
	stderrors "errors"
	osexec "os/exec"
	"strings"

	"github.com/pl247/aimon/internal/errors"
	"github.com/pl247/aimon/internal/exec"
	"github.com/pl247/aimon/internal/logger"
	"github.com/pl247/aimon/internal/monitor"
	"github.com/pl247/aimon/internal/monitor/parsers"
)

// File paths read by the command backend.
const (
	ProductNamePath = "/sys/devices/virtual/dmi/id/product_name"
	ProcNetDevPath  = "/proc/net/dev"
)

// Command reads metrics by running lscpu, mpstat, free and nvidia-smi and by
// reading /proc and /sys. Every utility is invoked without a shell.
type Command struct {
	runner   exec.Runner
	readFile func(path string) ([]byte, error)
	addrs    func(ctx context.Context) (map[string][]string, error)
	log      logger.Logger
}

// NewCommand creates a command backend over the given runner.
func NewCommand(runner exec.Runner, log logger.Logger) *Command {
	if log == nil {
		log = logger.Noop()
	}
	return &Command{
		runner:   runner,
		readFile: exec.ReadFile,
		addrs:    interfaceAddrs,
		log:      log,
	}
}

// ServerType returns the DMI product name, e.g. "UCSC-C240-M7SX".
func (c *Command) ServerType(_ context.Context) (string, error) {
	return readProductName(c.readFile)
}

// CPUInfo runs lscpu.
func (c *Command) CPUInfo(ctx context.Context) (monitor.CPUInfo, error) {
	out, err := c.runner.Run(ctx, "lscpu")
	if err != nil {
		return monitor.CPUInfo{}, err
	}
	return parsers.ParseLscpu(string(out))
}

// CPU runs `mpstat 1 1`, which blocks for about one second.
func (c *Command) CPU(ctx context.Context) (float64, error) {
	out, err := c.runner.Run(ctx, "mpstat", "1", "1")
	if err != nil {
		return 0, err
	}
	return parsers.ParseMpstat(string(out))
}

// Memory runs `free -h`.
func (c *Command) Memory(ctx context.Context) (monitor.MemoryUsage, error) {
	out, err := c.runner.Run(ctx, "free", "-h")
	if err != nil {
		return monitor.MemoryUsage{}, err
	}
	return parsers.ParseFree(string(out))
}

// GPU runs nvidia-smi. A missing utility or a failing driver means the host
// has no usable GPU, which is not an error; a hung query is.
func (c *Command) GPU(ctx context.Context) ([]monitor.GPUDevice, error) {
	out, err := c.runner.Run(ctx, "nvidia-smi", parsers.NvidiaSMIArgs...)
	if err != nil {
		var exitErr *osexec.ExitError
		if stderrors.Is(err, osexec.ErrNotFound) || stderrors.As(err, &exitErr) {
			c.log.Debug("no GPU: %s", errors.OneLine(err))
			return nil, nil
		}
		return nil, err
	}
	return parsers.ParseNvidiaSMI(string(out))
}

// Network reads /proc/net/dev and the interface address table.
func (c *Command) Network(ctx context.Context) (monitor.NetworkSample, error) {
	data, err := c.readFile(ProcNetDevPath)
	if err != nil {
		return monitor.NetworkSample{}, err
	}
	counters, err := parsers.ParseProcNetDev(string(data))
	if err != nil {
		return monitor.NetworkSample{}, err
	}
	addrs, err := c.addrs(ctx)
	if err != nil {
		return monitor.NetworkSample{}, err
	}
	return monitor.NetworkSample{Counters: counters, Addresses: addrs, Timestamp: now()}, nil
}

func readProductName(readFile func(string) ([]byte, error)) (string, error) {
	data, err := readFile(ProductNamePath)
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", errors.Unavailable(ProductNamePath, stderrors.New("empty product name"))
	}
	return name, nil
}
