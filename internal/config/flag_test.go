package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-s", "redis", "-d", "localhost:6379", "-n", "@test:", "-k", "key",
				"-l", "en-US", "-t", "3", "-p", "argon2", "-m", ":9100", "-v", "debug"},
			expected: &Config{
				StoreDriver: "redis", StoreDSN: "localhost:6379", Namespace: "@test:",
				Catalog:         CatalogConfig{APIKey: "key", Language: "en-US", Timeout: 3 * time.Second},
				PasswordHashing: "argon2", MetricsAddr: ":9100", LogLevel: "debug",
			},
		},
		{
			name:     "unknown flags ignored",
			args:     []string{"-c", "cfg.json", "-x", "1", "-s", "memory"},
			expected: &Config{StoreDriver: "memory"},
		},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}

			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
