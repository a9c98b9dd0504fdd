package cli

import (
	"github.com/spf13/pflag"

	"github.com/pl247/aimon/internal/config"
)

// AddDashboardFlags registers the flags that override config keys. Defaults
// live in config.DefaultConfig; flags only win when set explicitly.
func AddDashboardFlags(fs *pflag.FlagSet) {
	d := config.DefaultConfig()
	fs.Duration("interval", d.Interval, "refresh interval and rate window (e.g. 1s, 500ms)")
	fs.String("api-url", d.APIURL, "Prometheus metrics URL of the inference server; empty hides the LLM row")
	fs.StringSlice("exclude", d.Exclude, "interface name globs to hide")
	fs.Bool("require-ipv4", d.RequireIPv4, "hide interfaces without an IPv4 address")
	fs.String("backend", d.Backend, "metric backend: command or native")
	fs.Duration("source-timeout", d.SourceTimeout, "timeout for each utility run and scrape")
	fs.String("vendor", d.Vendor, "vendor name shown in the title")
	fs.String("metric-name", d.Metric.Name, "Prometheus metric holding generated tokens")
	fs.String("metric-kind", d.Metric.Kind, "metric kind: counter or gauge")
	fs.String("log-file", d.LogFile, "write logs here while the dashboard runs")
}
