package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pl247/aimon/internal/errors"
)

const (
	// ConfigFileName is the config file looked up in the current directory.
	ConfigFileName = "aimon.yaml"
	// GlobalConfigDir is the directory for the per-user config.
	GlobalConfigDir = ".config/aimon"
	// GlobalConfigFile is the per-user config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix namespaces environment overrides, e.g. AIMON_API_URL.
	EnvPrefix = "AIMON"
)

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"interval":       "interval",
	"api-url":        "api_url",
	"exclude":        "exclude",
	"require-ipv4":   "require_ipv4",
	"backend":        "backend",
	"source-timeout": "source_timeout",
	"vendor":         "vendor",
	"metric-name":    "metric.name",
	"metric-kind":    "metric.kind",
	"log-file":       "log_file",
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. aimon.yaml in the current directory
// 3. ~/.config/aimon/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	// 1. Explicit path takes precedence
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	// 2. Current directory
	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ConfigFileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	// 3. Global config
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// Load merges defaults, the config file (if any), AIMON_ environment
// variables and the changed flags in flags (if non-nil), in increasing
// precedence. The result is validated.
func Load(explicit string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.WrapWithCode(err, errors.ErrConfig,
						"Failed to bind flag --"+name, "")
				}
			}
		}
	}

	return parseConfig(v, path)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		source := "your config"
		if path != "" {
			source = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax and value types in "+source)
	}

	// Comma-separated env values arrive as a single element
	cfg.Exclude = splitList(cfg.Exclude)
	cfg.LogFile = Expand(cfg.LogFile)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("interval", d.Interval)
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("require_ipv4", d.RequireIPv4)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("source_timeout", d.SourceTimeout)
	v.SetDefault("vendor", d.Vendor)
	v.SetDefault("metric.name", d.Metric.Name)
	v.SetDefault("metric.kind", d.Metric.Kind)
	v.SetDefault("log_file", d.LogFile)
}

func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, part)
		}
	}
	return out
}
