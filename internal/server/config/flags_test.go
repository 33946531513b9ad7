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
		name        string
		args        []string
		expected    func() *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-m", ":9100", "-d", "db", "-s", "secret",
				"-t", "1", "-r", "3", "-f", "25", "-q", "16",
				"-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint", "-l", "zap",
			},
			expected: func() *Config {
				c := defaults()
				c.EndpointAddrGRPC = "127.0.0.1:9090"
				c.AdminAddr = ":9100"
				c.DatabaseDSN = "db"
				c.SecretKey = "secret"
				c.AccessTokenValidityDuration = 1 * time.Minute
				c.RefreshTokenValidityDuration = 3 * time.Minute
				c.PlatformFeeBps = 25
				c.PoolSize = 16
				c.S3Bucket = "bucket"
				c.S3Region = "us-west-1"
				c.S3BaseEndpoint = "http://endpoint"
				c.LogBackend = "zap"
				return c
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-c", "server.yaml", "-x", "y", "-a", ":1"},
			expected: func() *Config { c := defaults(); c.EndpointAddrGRPC = ":1"; return c },
		},
		{
			name:        "bad int",
			args:        []string{"-q", "lots"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t, tt.args...)
			cfg := defaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected(), cfg))
		})
	}
}

func TestParseFlags_KeepsSubMinuteDurationsWhenAbsent(t *testing.T) {
	isolate(t)
	cfg := defaults()
	cfg.AccessTokenValidityDuration = 30 * time.Second

	parseFlags(cfg)
	assert.Equal(t, 30*time.Second, cfg.AccessTokenValidityDuration)
}
