package monitor

import (
	"context"
	"fmt"
	"net"
	"path"
	"sort"
	"time"

	"github.com/pl247/aimon/internal/errors"
	"github.com/pl247/aimon/internal/logger"
)

// TokenKind says how the external metric should be turned into tokens/s.
type TokenKind string

const (
	// TokenCounter is a cumulative count that is diffed between samples.
	TokenCounter TokenKind = "counter"
	// TokenGauge is already a throughput and is displayed as read.
	TokenGauge TokenKind = "gauge"
)

// DefaultExclude skips loopback and common virtual bridge interfaces.
var DefaultExclude = []string{"lo", "docker0", "virbr*", "br-*", "veth*"}

// EngineConfig controls snapshot assembly.
type EngineConfig struct {
	Vendor        string
	Exclude       []string // glob patterns matched against interface names
	RequireIPv4   bool
	SourceTimeout time.Duration
	TokenKind     TokenKind
}

// Engine samples every configured Source and assembles Snapshots.
// It keeps the previous counter samples so each Sample diffs against the last one;
// only one Sample may run at a time.
type Engine struct {
	sources Sources
	cfg     EngineConfig
	log     logger.Logger
	now     func() time.Time

	identity   *HostIdentity
	prevNet    *NetworkSample
	prevTokens *CounterSample
}

// NewEngine creates an engine over the given sources.
func NewEngine(sources Sources, cfg EngineConfig, log logger.Logger) *Engine {
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = 3 * time.Second
	}
	if cfg.TokenKind == "" {
		cfg.TokenKind = TokenCounter
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Engine{
		sources: sources,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

// SetClock replaces the time source used to stamp samples.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// TokensEnabled reports whether a metrics endpoint is configured.
func (e *Engine) TokensEnabled() bool {
	return e.sources.Tokens != nil
}

// Identity fetches the static host description on first call and caches it.
// Failed fields become placeholders; they are not retried.
func (e *Engine) Identity(ctx context.Context) HostIdentity {
	if e.identity != nil {
		return *e.identity
	}

	id := HostIdentity{
		Vendor:     e.cfg.Vendor,
		ServerType: Placeholder,
		Hostname:   Placeholder,
		CPU:        CPUInfo{Model: Placeholder, Sockets: Placeholder, CoresPerSocket: Placeholder},
	}

	if v, err := read(ctx, e, "server type", e.sources.ServerType); err == nil && v != "" {
		id.ServerType = v
	}
	if v, err := read(ctx, e, "hostname", e.sources.Hostname); err == nil && v != "" {
		id.Hostname = v
	}
	if v, err := read(ctx, e, "cpu info", e.sources.CPUInfo); err == nil {
		id.CPU = fillCPUInfo(v)
	}
	if gpus, err := read(ctx, e, "gpu", e.sources.GPU); err == nil && len(gpus) > 0 {
		id.GPUCount = len(gpus)
		id.GPUName = gpus[0].Name
	}

	e.identity = &id
	return id
}

// Baseline captures the "before" counter samples. Sample calls it implicitly
// when no baseline exists, but the first frame then has no rates.
func (e *Engine) Baseline(ctx context.Context) {
	if ns, err := read(ctx, e, "network", e.sources.Network); err == nil {
		e.prevNet = stampNetwork(ns, e.now())
	}
	if e.sources.Tokens != nil && e.cfg.TokenKind == TokenCounter {
		if v, err := read(ctx, e, "tokens", e.sources.Tokens); err == nil {
			e.prevTokens = &CounterSample{Value: v, Timestamp: e.now()}
		}
	}
}

// Sample captures the "after" counters, diffs them against the previous
// sample, reads every gauge, and returns the assembled Snapshot. The new
// counters become the baseline for the next call.
func (e *Engine) Sample(ctx context.Context) Snapshot {
	snap := Snapshot{
		Identity: e.Identity(ctx),
		Taken:    e.now(),
	}

	// Counters first so the measured window is as close to the interval as possible
	snap.Network = e.sampleNetwork(ctx)
	if e.sources.Tokens != nil {
		tokens := e.sampleTokens(ctx)
		snap.Tokens = &tokens
	}

	cpu, err := read(ctx, e, "cpu", e.sources.CPU)
	snap.CPU = Reading[float64]{Value: cpu, Err: err}

	mem, err := read(ctx, e, "memory", e.sources.Memory)
	snap.Memory = Reading[MemoryUsage]{Value: mem, Err: err}

	gpus, err := read(ctx, e, "gpu", e.sources.GPU)
	snap.GPUs = Reading[[]GPUDevice]{Value: gpus, Err: err}

	return snap
}

func (e *Engine) sampleNetwork(ctx context.Context) Reading[map[string]NICRates] {
	after, err := read(ctx, e, "network", e.sources.Network)
	if err != nil {
		return Reading[map[string]NICRates]{Err: err}
	}
	current := stampNetwork(after, e.now())

	before := e.prevNet
	e.prevNet = current
	if before == nil {
		return Reading[map[string]NICRates]{Err: ErrNoBaseline}
	}

	rates, err := e.nicRates(*before, *current)
	return Reading[map[string]NICRates]{Value: rates, Err: err}
}

// nicRates builds the interface -> rate-pair mapping. Only interfaces present
// in both samples, not excluded, and holding a suitable address are included.
func (e *Engine) nicRates(before, after NetworkSample) (map[string]NICRates, error) {
	elapsed := after.Timestamp.Sub(before.Timestamp)
	rates := make(map[string]NICRates)

	for name, a := range after.Counters {
		b, ok := before.Counters[name]
		if !ok || !e.Displayable(name, after.Addresses[name]) {
			continue
		}

		sent, err := ComputeRate(b.BytesSent, a.BytesSent, elapsed)
		if err != nil {
			return nil, err
		}
		recv, err := ComputeRate(b.BytesRecv, a.BytesRecv, elapsed)
		if err != nil {
			return nil, err
		}

		rates[name] = NICRates{
			Sent: FormatRate(sent.Bits()),
			Recv: FormatRate(recv.Bits()),
		}
	}
	return rates, nil
}

// Displayable applies the exclusion list and the address requirement.
func (e *Engine) Displayable(name string, addrs []string) bool {
	for _, pattern := range e.cfg.Exclude {
		if matched, _ := path.Match(pattern, name); matched {
			return false
		}
	}
	if len(addrs) == 0 {
		return false
	}
	if !e.cfg.RequireIPv4 {
		return true
	}
	for _, a := range addrs {
		if isIPv4(a) {
			return true
		}
	}
	return false
}

func (e *Engine) sampleTokens(ctx context.Context) Reading[float64] {
	v, err := read(ctx, e, "tokens", e.sources.Tokens)
	if err != nil {
		return Reading[float64]{Err: err}
	}
	if e.cfg.TokenKind == TokenGauge {
		return Reading[float64]{Value: v}
	}

	current := &CounterSample{Value: v, Timestamp: e.now()}
	before := e.prevTokens
	e.prevTokens = current
	if before == nil {
		return Reading[float64]{Err: ErrNoBaseline}
	}

	rate, err := ComputeRate(before.Value, current.Value, current.Timestamp.Sub(before.Timestamp))
	if err != nil {
		return Reading[float64]{Err: err}
	}
	if rate.Indeterminate {
		return Reading[float64]{Err: ErrIndeterminate}
	}
	return Reading[float64]{Value: rate.PerSecond}
}

// read calls one source with the per-source deadline. Errors and panics are
// logged and returned; they never escape as a crash.
func read[T any](ctx context.Context, e *Engine, name string, src Source[T]) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = errors.Unavailable(name, fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			e.log.Warn("%s degraded: %s", name, errors.OneLine(err))
		}
	}()

	if src == nil {
		return value, errors.New(errors.ErrSource, name+" source not configured", "")
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.SourceTimeout)
	defer cancel()

	return src.Read(ctx)
}

// stampNetwork fills in a missing timestamp so elapsed time can be computed.
func stampNetwork(ns NetworkSample, now time.Time) *NetworkSample {
	if ns.Timestamp.IsZero() {
		ns.Timestamp = now
	}
	return &ns
}

func fillCPUInfo(c CPUInfo) CPUInfo {
	if c.Model == "" {
		c.Model = Placeholder
	}
	if c.Sockets == "" {
		c.Sockets = Placeholder
	}
	if c.CoresPerSocket == "" {
		c.CoresPerSocket = Placeholder
	}
	return c
}

func isIPv4(cidr string) bool {
	ip, _, err := net.ParseCIDR(cidr)
	if err != nil {
		ip = net.ParseIP(cidr)
	}
	return ip != nil && ip.To4() != nil
}

// SortedNames returns the interface names of a rate map in display order.
func SortedNames(rates map[string]NICRates) []string {
	names := make([]string, 0, len(rates))
	for name := range rates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
