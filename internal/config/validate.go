package config

import (
	"fmt"
	"net/url"
	"path"

	"github.com/pl247/aimon/internal/errors"
)

// Backends and metric kinds accepted in config.
var (
	validBackends    = map[string]bool{"command": true, "native": true}
	validMetricKinds = map[string]bool{"counter": true, "gauge": true}
)

// Validate checks the config for errors and returns structured error messages.
// A non-positive interval would make every rate undefined, so it is rejected here.
func Validate(cfg *Config) error {
	if cfg.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval %s is too short (minimum %s)", cfg.Interval, MinInterval),
			"Use something like --interval 1s.")
	}

	if cfg.SourceTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Source timeout must be positive, got %s", cfg.SourceTimeout),
			"Use something like --source-timeout 3s.")
	}

	if cfg.APIURL != "" {
		if err := validateAPIURL(cfg.APIURL); err != nil {
			return err
		}
	}

	if !validBackends[cfg.Backend] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown backend '%s'", cfg.Backend),
			"Valid options: command, native")
	}

	if cfg.Metric.Name == "" {
		return errors.New(errors.ErrConfig,
			"Metric name is empty",
			"Set metric.name, e.g. vllm:generation_tokens_total.")
	}
	if !validMetricKinds[cfg.Metric.Kind] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown metric kind '%s'", cfg.Metric.Kind),
			"Valid options: counter, gauge")
	}

	for _, pattern := range cfg.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Bad interface pattern '%s'", pattern),
				"Patterns use shell globs like 'veth*'.")
		}
	}

	return nil
}

func validateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't parse API URL '%s'", raw),
			"Pass a full URL such as http://localhost:8000/metrics.")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("API URL '%s' must use http or https", raw),
			"Pass a full URL such as http://localhost:8000/metrics.")
	}
	if u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("API URL '%s' has no host", raw),
			"Pass a full URL such as http://localhost:8000/metrics.")
	}
	return nil
}
