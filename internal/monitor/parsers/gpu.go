package parsers

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pl247/aimon/internal/errors"
	"github.com/pl247/aimon/internal/monitor"
)

// NvidiaSMIArgs is the query whose output ParseNvidiaSMI understands.
var NvidiaSMIArgs = []string{
	"--query-gpu=gpu_name,memory.used,utilization.gpu,memory.total",
	"--format=csv,noheader,nounits",
}

// ParseNvidiaSMI parses one GPU per line from nvidia-smi CSV output.
// Each line is "name, memory_used_MiB, utilization_pct, memory_total_MiB".
//
// Returns nil, nil if no GPU is available (empty output or a driver error message).
func ParseNvidiaSMI(output string) ([]monitor.GPUDevice, error) {
	output = strings.TrimSpace(output)

	// Handle missing GPU gracefully
	if output == "" {
		return nil, nil
	}

	// Check for common error indicators
	lowerOutput := strings.ToLower(output)
	if strings.Contains(lowerOutput, "no devices") ||
		strings.Contains(lowerOutput, "not found") ||
		strings.Contains(lowerOutput, "failed") ||
		strings.Contains(lowerOutput, "error") ||
		strings.Contains(lowerOutput, "couldn't communicate") {
		return nil, nil
	}

	var gpus []monitor.GPUDevice
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		gpu, err := parseGPULine(line)
		if err != nil {
			return nil, errors.Parse("nvidia-smi", err)
		}
		gpus = append(gpus, gpu)
	}
	return gpus, nil
}

func parseGPULine(line string) (monitor.GPUDevice, error) {
	// Example: "NVIDIA L40S, 1024, 40, 46068"
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return monitor.GPUDevice{}, fmt.Errorf("expected 4 fields, got %d in %q", len(fields), line)
	}

	gpu := monitor.GPUDevice{Name: strings.TrimSpace(fields[0])}
	if gpu.Name == "" {
		return monitor.GPUDevice{}, stderrors.New("empty GPU name")
	}

	var err error
	if gpu.MemoryUsedMiB, err = parseGPUInt(fields[1], "memory used"); err != nil {
		return monitor.GPUDevice{}, err
	}
	util, err := parseGPUInt(fields[2], "utilization")
	if err != nil {
		return monitor.GPUDevice{}, err
	}
	gpu.UtilizationPct = int(util)
	if gpu.MemoryTotalMiB, err = parseGPUInt(fields[3], "memory total"); err != nil {
		return monitor.GPUDevice{}, err
	}
	return gpu, nil
}

// parseGPUInt reads one numeric column. "[N/A]" (e.g. utilization on some
// virtualized GPUs) reads as zero.
func parseGPUInt(field, what string) (int64, error) {
	s := strings.TrimSpace(field)
	if s == "" || s == "[N/A]" || s == "N/A" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Some drivers report fractional values
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, fmt.Errorf("failed to parse GPU %s '%s': %w", what, s, err)
		}
		v = int64(f)
	}
	return v, nil
}
