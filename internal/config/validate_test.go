package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pl247/aimon/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		wantErr     bool
		errContains string
	}{
		{
			name:   "defaults",
			modify: func(*Config) {},
		},
		{
			name:        "zero interval",
			modify:      func(c *Config) { c.Interval = 0 },
			wantErr:     true,
			errContains: "too short",
		},
		{
			name:        "negative interval",
			modify:      func(c *Config) { c.Interval = -time.Second },
			wantErr:     true,
			errContains: "too short",
		},
		{
			name:   "minimum interval",
			modify: func(c *Config) { c.Interval = MinInterval },
		},
		{
			name:        "zero source timeout",
			modify:      func(c *Config) { c.SourceTimeout = 0 },
			wantErr:     true,
			errContains: "Source timeout",
		},
		{
			name:   "https api url",
			modify: func(c *Config) { c.APIURL = "https://node1:8000/metrics" },
		},
		{
			name:        "api url without scheme",
			modify:      func(c *Config) { c.APIURL = "localhost:8000/metrics" },
			wantErr:     true,
			errContains: "http or https",
		},
		{
			name:        "api url without host",
			modify:      func(c *Config) { c.APIURL = "http:///metrics" },
			wantErr:     true,
			errContains: "no host",
		},
		{
			name:        "unknown backend",
			modify:      func(c *Config) { c.Backend = "wmi" },
			wantErr:     true,
			errContains: "Unknown backend",
		},
		{
			name:        "unknown metric kind",
			modify:      func(c *Config) { c.Metric.Kind = "histogram" },
			wantErr:     true,
			errContains: "Unknown metric kind",
		},
		{
			name:        "empty metric name",
			modify:      func(c *Config) { c.Metric.Name = "" },
			wantErr:     true,
			errContains: "Metric name",
		},
		{
			name:        "bad exclude glob",
			modify:      func(c *Config) { c.Exclude = []string{"eth[0"} },
			wantErr:     true,
			errContains: "Bad interface pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				assert.Contains(t, err.Error(), tt.errContains)
			}
		})
	}
}
