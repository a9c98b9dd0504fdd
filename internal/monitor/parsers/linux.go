package parsers

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pl247/aimon/internal/errors"
	"github.com/pl247/aimon/internal/monitor"
)

// ParseLscpu extracts the CPU model, socket count and cores per socket from
// lscpu output. Values are kept as the strings lscpu prints.
func ParseLscpu(output string) (monitor.CPUInfo, error) {
	var info monitor.CPUInfo
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		// First occurrence wins; lscpu repeats some keys per cluster on ARM
		switch strings.TrimSpace(key) {
		case "Model name":
			if info.Model == "" {
				info.Model = value
			}
		case "Socket(s)":
			if info.Sockets == "" {
				info.Sockets = value
			}
		case "Core(s) per socket", "Core(s) per cluster":
			if info.CoresPerSocket == "" {
				info.CoresPerSocket = value
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return monitor.CPUInfo{}, errors.Parse("lscpu", err)
	}
	if info.Model == "" && info.Sockets == "" && info.CoresPerSocket == "" {
		return monitor.CPUInfo{}, errors.Parse("lscpu", stderrors.New("no Model name, Socket(s) or Core(s) per socket line"))
	}
	return info, nil
}

// ParseMpstat returns the busy percentage from the "Average:" line of
// `mpstat 1 1`: 100 minus the trailing %idle column.
func ParseMpstat(output string) (float64, error) {
	var idleField string
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "Average:" {
			continue
		}
		// Skip the repeated header line
		if strings.HasPrefix(fields[len(fields)-1], "%") {
			continue
		}
		idleField = fields[len(fields)-1]
	}

	if err := scanner.Err(); err != nil {
		return 0, errors.Parse("mpstat", err)
	}
	if idleField == "" {
		return 0, errors.Parse("mpstat", stderrors.New("no Average: line"))
	}

	idle, err := strconv.ParseFloat(strings.Replace(idleField, ",", ".", 1), 64)
	if err != nil {
		return 0, errors.Parse("mpstat", fmt.Errorf("failed to parse idle '%s': %w", idleField, err))
	}
	if idle < 0 || idle > 100 {
		return 0, errors.Parse("mpstat", fmt.Errorf("idle %.2f out of range", idle))
	}
	return 100 - idle, nil
}

// ParseFree reads the "Mem:" line of `free -h`. Sizes stay as printed
// (e.g. "251Gi"). Available is the available column when present, otherwise
// the free column.
func ParseFree(output string) (monitor.MemoryUsage, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "Mem:" {
			continue
		}
		// Mem: total used free shared buff/cache available
		if len(fields) < 4 {
			return monitor.MemoryUsage{}, errors.Parse("free", fmt.Errorf("memory line has %d fields", len(fields)))
		}
		usage := monitor.MemoryUsage{
			Total:     fields[1],
			Used:      fields[2],
			Available: fields[3],
		}
		if len(fields) >= 7 {
			usage.Available = fields[6]
		}
		return usage, nil
	}

	if err := scanner.Err(); err != nil {
		return monitor.MemoryUsage{}, errors.Parse("free", err)
	}
	return monitor.MemoryUsage{}, errors.Parse("free", stderrors.New("no Mem: line"))
}

// ParseProcNetDev parses the cumulative byte counters of every interface in
// /proc/net/dev.
func ParseProcNetDev(procNetDev string) (map[string]monitor.InterfaceCounters, error) {
	counters := make(map[string]monitor.InterfaceCounters)
	scanner := bufio.NewScanner(strings.NewReader(procNetDev))

	for scanner.Scan() {
		line := scanner.Text()

		// Format: "  iface: bytes packets errs drop fifo frame compressed multicast | bytes packets..."
		// Header lines contain '|' and no counters.
		name, rest, ok := strings.Cut(line, ":")
		if !ok || strings.Contains(line, "|") {
			continue
		}
		name = strings.TrimSpace(name)
		fields := strings.Fields(rest)

		// Need at least 16 fields (8 receive + 8 transmit)
		if len(fields) < 16 {
			return nil, errors.Parse("/proc/net/dev", fmt.Errorf("interface %s has %d fields", name, len(fields)))
		}

		bytesRecv, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, errors.Parse("/proc/net/dev", fmt.Errorf("failed to parse bytes_in for %s: %w", name, err))
		}
		bytesSent, err := strconv.ParseUint(fields[8], 10, 64)
		if err != nil {
			return nil, errors.Parse("/proc/net/dev", fmt.Errorf("failed to parse bytes_out for %s: %w", name, err))
		}

		counters[name] = monitor.InterfaceCounters{BytesSent: bytesSent, BytesRecv: bytesRecv}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Parse("/proc/net/dev", err)
	}
	if len(counters) == 0 {
		return nil, errors.Parse("/proc/net/dev", stderrors.New("no interfaces"))
	}
	return counters, nil
}
