// Package sources provides the concrete metric sources behind the dashboard:
// a command backend driving the usual Linux utilities, a native backend
// built on gopsutil, and the Prometheus token scraper.
package sources

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pl247/aimon/internal/errors"
	"github.com/pl247/aimon/internal/exec"
	"github.com/pl247/aimon/internal/logger"
	"github.com/pl247/aimon/internal/monitor"
)

// Backend selects how host metrics are collected.
type Backend string

const (
	// BackendCommand shells out to lscpu, mpstat, free and nvidia-smi.
	BackendCommand Backend = "command"
	// BackendNative uses gopsutil for everything except the GPU.
	BackendNative Backend = "native"
)

// now is swapped in tests.
var now = time.Now

// Options configures New.
type Options struct {
	Backend Backend

	// Runner executes external utilities. Nil means exec.Local with Timeout.
	Runner  exec.Runner
	Timeout time.Duration

	// APIURL enables the tokens source when non-empty.
	APIURL     string
	MetricName string
	HTTPClient *http.Client

	Log logger.Logger
}

// New wires the source set for the chosen backend.
func New(opts Options) (monitor.Sources, error) {
	if opts.Runner == nil {
		opts.Runner = exec.Local{Timeout: opts.Timeout}
	}
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}

	cmd := NewCommand(opts.Runner, opts.Log)
	hostname := monitor.SourceFunc[string](Hostname)

	var srcs monitor.Sources
	switch opts.Backend {
	case BackendCommand, "":
		srcs = monitor.Sources{
			ServerType: monitor.SourceFunc[string](cmd.ServerType),
			Hostname:   hostname,
			CPUInfo:    monitor.SourceFunc[monitor.CPUInfo](cmd.CPUInfo),
			CPU:        monitor.SourceFunc[float64](cmd.CPU),
			Memory:     monitor.SourceFunc[monitor.MemoryUsage](cmd.Memory),
			GPU:        monitor.SourceFunc[[]monitor.GPUDevice](cmd.GPU),
			Network:    monitor.SourceFunc[monitor.NetworkSample](cmd.Network),
		}
	case BackendNative:
		n := NewNative()
		srcs = monitor.Sources{
			ServerType: monitor.SourceFunc[string](n.ServerType),
			Hostname:   monitor.SourceFunc[string](n.Hostname),
			CPUInfo:    monitor.SourceFunc[monitor.CPUInfo](n.CPUInfo),
			CPU:        monitor.SourceFunc[float64](n.CPU),
			Memory:     monitor.SourceFunc[monitor.MemoryUsage](n.Memory),
			GPU:        monitor.SourceFunc[[]monitor.GPUDevice](cmd.GPU),
			Network:    monitor.SourceFunc[monitor.NetworkSample](n.Network),
		}
	default:
		return monitor.Sources{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("unknown backend %q", opts.Backend),
			"Use \"command\" or \"native\".")
	}

	if opts.APIURL != "" {
		srcs.Tokens = NewTokens(opts.APIURL, opts.MetricName, opts.HTTPClient)
	}
	return srcs, nil
}

// Hostname reports the kernel host name.
func Hostname(_ context.Context) (string, error) {
	name, err := os.Hostname()
	if err != nil {
		return "", errors.Unavailable("hostname", err)
	}
	return name, nil
}
