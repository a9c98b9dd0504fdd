package config

import (
	"time"

	"github.com/pl247/aimon/internal/monitor"
	"github.com/pl247/aimon/internal/sources"
)

// Config is the complete dashboard configuration after merging flags,
// AIMON_ environment variables, the optional config file and defaults.
type Config struct {
	// Interval is the poll cadence and the rate-measurement window.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// APIURL is the Prometheus endpoint of the inference server. Empty
	// removes the LLM row entirely.
	APIURL string `yaml:"api_url" mapstructure:"api_url"`

	// Exclude lists interface name globs that are never displayed.
	Exclude []string `yaml:"exclude" mapstructure:"exclude"`

	// RequireIPv4 hides interfaces without an IPv4 address.
	RequireIPv4 bool `yaml:"require_ipv4" mapstructure:"require_ipv4"`

	// Backend is "command" or "native".
	Backend string `yaml:"backend" mapstructure:"backend"`

	// SourceTimeout bounds each utility run and HTTP scrape.
	SourceTimeout time.Duration `yaml:"source_timeout" mapstructure:"source_timeout"`

	// Vendor is prefixed to the title row.
	Vendor string `yaml:"vendor" mapstructure:"vendor"`

	Metric MetricConfig `yaml:"metric" mapstructure:"metric"`

	// LogFile receives log output while the dashboard owns the terminal.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`
}

// MetricConfig selects the token-throughput metric.
type MetricConfig struct {
	// Name is the Prometheus metric name, e.g. vllm:generation_tokens_total.
	Name string `yaml:"name" mapstructure:"name"`

	// Kind is "counter" (diffed into tokens/s) or "gauge" (shown as read).
	Kind string `yaml:"kind" mapstructure:"kind"`
}

// Defaults
const (
	DefaultInterval      = time.Second
	MinInterval          = 100 * time.Millisecond
	DefaultBackend       = "command"
	DefaultSourceTimeout = 3 * time.Second
	DefaultVendor        = "Cisco"
	DefaultMetricKind    = "counter"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Interval:      DefaultInterval,
		Exclude:       append([]string(nil), monitor.DefaultExclude...),
		RequireIPv4:   true,
		Backend:       DefaultBackend,
		SourceTimeout: DefaultSourceTimeout,
		Vendor:        DefaultVendor,
		Metric: MetricConfig{
			Name: sources.DefaultMetricName,
			Kind: DefaultMetricKind,
		},
	}
}
