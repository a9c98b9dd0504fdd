package monitor

import "time"

// HostIdentity holds the descriptive fields fetched once at startup.
// They are assumed static for the life of the process.
type HostIdentity struct {
	Vendor     string
	ServerType string
	Hostname   string
	CPU        CPUInfo
	GPUCount   int
	GPUName    string
}

// CPUInfo describes the processor package layout as reported by lscpu.
// Values are kept as display strings; lscpu already formats them.
type CPUInfo struct {
	Model          string
	Sockets        string
	CoresPerSocket string
}

// MemoryUsage holds memory figures already scaled for display (e.g. "251Gi").
type MemoryUsage struct {
	Total     string
	Used      string
	Available string
}

// GPUDevice is one row of the GPU query utility output.
type GPUDevice struct {
	Name           string
	MemoryUsedMiB  int64
	UtilizationPct int
	MemoryTotalMiB int64
}

// MemoryUsedGiB converts the used memory to GiB for display.
func (g GPUDevice) MemoryUsedGiB() float64 {
	return float64(g.MemoryUsedMiB) / 1024
}

// MemoryTotalGiB converts the total memory to GiB for display.
func (g GPUDevice) MemoryTotalGiB() float64 {
	return float64(g.MemoryTotalMiB) / 1024
}

// InterfaceCounters are the cumulative byte counters of one interface since boot.
type InterfaceCounters struct {
	BytesSent uint64
	BytesRecv uint64
}

// NetworkSample is a CounterSample for every interface the OS knows about,
// plus the addresses currently assigned to each interface.
type NetworkSample struct {
	Counters  map[string]InterfaceCounters
	Addresses map[string][]string // CIDR strings, e.g. "10.0.0.5/24"
	Timestamp time.Time
}

// CounterSample is a single monotonically increasing counter captured at a point in time.
type CounterSample struct {
	Value     float64
	Timestamp time.Time
}

// Reading pairs a value with the error that prevented obtaining it.
// A non-nil Err means Value must be rendered as a placeholder.
type Reading[T any] struct {
	Value T
	Err   error
}

// OK reports whether the reading carries a usable value.
func (r Reading[T]) OK() bool {
	return r.Err == nil
}

// NICRates is the formatted transmit/receive pair for one interface.
type NICRates struct {
	Sent string
	Recv string
}

// Snapshot is everything the renderer needs for one frame.
// It is rebuilt every iteration and never retained.
type Snapshot struct {
	Identity HostIdentity
	Taken    time.Time
	CPU      Reading[float64]
	Memory   Reading[MemoryUsage]
	GPUs     Reading[[]GPUDevice]
	Network  Reading[map[string]NICRates]

	// Tokens is nil when no metrics endpoint is configured; the row is then omitted.
	Tokens *Reading[float64]
}
