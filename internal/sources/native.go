package sources

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"

	"github.com/pl247/aimon/internal/errors"
	"github.com/pl247/aimon/internal/exec"
	"github.com/pl247/aimon/internal/monitor"
)

// CPUSampleWindow is how long the native CPU source measures utilization.
const CPUSampleWindow = time.Second

// Native reads metrics through gopsutil instead of external utilities.
// GPU figures still come from nvidia-smi; there is no portable library for them.
type Native struct {
	readFile func(path string) ([]byte, error)
}

// NewNative creates a gopsutil-backed source set.
func NewNative() *Native {
	return &Native{readFile: exec.ReadFile}
}

// ServerType returns the DMI product name.
func (n *Native) ServerType(_ context.Context) (string, error) {
	return readProductName(n.readFile)
}

// Hostname reports the kernel host name.
func (n *Native) Hostname(ctx context.Context) (string, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", errors.Unavailable("host info", err)
	}
	return info.Hostname, nil
}

// CPUInfo derives model, socket count and cores per socket from the CPU table.
func (n *Native) CPUInfo(ctx context.Context) (monitor.CPUInfo, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return monitor.CPUInfo{}, errors.Unavailable("cpu info", err)
	}
	if len(infos) == 0 {
		return monitor.CPUInfo{}, errors.Parse("cpu info", fmt.Errorf("no processors reported"))
	}

	sockets := make(map[string]struct{})
	for _, info := range infos {
		sockets[info.PhysicalID] = struct{}{}
	}

	cores, err := cpu.CountsWithContext(ctx, false)
	if err != nil {
		return monitor.CPUInfo{}, errors.Unavailable("cpu count", err)
	}

	return monitor.CPUInfo{
		Model:          infos[0].ModelName,
		Sockets:        strconv.Itoa(len(sockets)),
		CoresPerSocket: strconv.Itoa(cores / len(sockets)),
	}, nil
}

// CPU measures utilization over CPUSampleWindow; it blocks that long.
func (n *Native) CPU(ctx context.Context) (float64, error) {
	pct, err := cpu.PercentWithContext(ctx, CPUSampleWindow, false)
	if err != nil {
		return 0, errors.Unavailable("cpu percent", err)
	}
	if len(pct) == 0 {
		return 0, errors.Parse("cpu percent", fmt.Errorf("no aggregate figure"))
	}
	return pct[0], nil
}

// Memory reports total, used and available memory in IEC units.
func (n *Native) Memory(ctx context.Context) (monitor.MemoryUsage, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return monitor.MemoryUsage{}, errors.Unavailable("virtual memory", err)
	}
	return monitor.MemoryUsage{
		Total:     humanize.IBytes(vm.Total),
		Used:      humanize.IBytes(vm.Used),
		Available: humanize.IBytes(vm.Available),
	}, nil
}

// Network reads per-interface counters and the address table.
func (n *Native) Network(ctx context.Context) (monitor.NetworkSample, error) {
	stats, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return monitor.NetworkSample{}, errors.Unavailable("network counters", err)
	}
	taken := now()

	counters := make(map[string]monitor.InterfaceCounters, len(stats))
	for _, s := range stats {
		counters[s.Name] = monitor.InterfaceCounters{BytesSent: s.BytesSent, BytesRecv: s.BytesRecv}
	}

	addrs, err := interfaceAddrs(ctx)
	if err != nil {
		return monitor.NetworkSample{}, err
	}
	return monitor.NetworkSample{Counters: counters, Addresses: addrs, Timestamp: taken}, nil
}

// interfaceAddrs maps each interface to its assigned addresses in CIDR form.
func interfaceAddrs(ctx context.Context) (map[string][]string, error) {
	ifaces, err := net.InterfacesWithContext(ctx)
	if err != nil {
		return nil, errors.Unavailable("interface addresses", err)
	}
	addrs := make(map[string][]string, len(ifaces))
	for _, iface := range ifaces {
		for _, a := range iface.Addrs {
			addrs[iface.Name] = append(addrs[iface.Name], a.Addr)
		}
	}
	return addrs, nil
}
