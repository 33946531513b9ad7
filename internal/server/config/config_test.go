package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points os.Args at args and keeps a stray .env or SAFESEND_*
// variable from leaking into the test.
func isolate(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"testbin"}, args...)
	t.Setenv("SAFESEND_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, ":8081", c.AdminAddr)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, "recipient-only", c.ClaimPolicy)
	assert.Equal(t, 50, c.PlatformFeeBps)
	assert.Empty(t, c.S3Bucket, "archive is off by default")
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	isolate(t)

	got := LoadConfig()
	want := defaults()
	want.EnvFile = os.Getenv("SAFESEND_ENV_FILE")

	assert.Empty(t, cmp.Diff(want, got))
}

func TestLedgerParams_Defaults(t *testing.T) {
	p, err := defaults().LedgerParams()
	require.NoError(t, err)

	want := ledger.DefaultParams()
	assert.Equal(t, 0, want.NotificationAmount.Cmp(p.NotificationAmount))
	assert.Equal(t, 0, want.MinDeposit.Cmp(p.MinDeposit))
	assert.Equal(t, 0, want.FaucetAmount.Cmp(p.FaucetAmount))
	assert.Equal(t, want.PlatformFeeBps, p.PlatformFeeBps)
	assert.Equal(t, want.ClaimPolicy, p.ClaimPolicy)
	assert.Equal(t, want.MaxExpiryMinutes, p.MaxExpiryMinutes)
}

func TestLedgerParams_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad notification", func(c *Config) { c.NotificationAmount = "abc" }},
		{"bad min", func(c *Config) { c.MinDeposit = "-1" }},
		{"bad faucet", func(c *Config) { c.FaucetAmount = "0.0000000000000000001" }},
		{"negative fee", func(c *Config) { c.PlatformFeeBps = -1 }},
		{"fee too high", func(c *Config) { c.PlatformFeeBps = 10_000 }},
		{"unknown policy", func(c *Config) { c.ClaimPolicy = "anyone" }},
		{"zero expiry cap", func(c *Config) { c.MaxExpiryMinutes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			_, err := c.LedgerParams()
			assert.Error(t, err)
		})
	}
}

func TestLedgerAddress(t *testing.T) {
	c := defaults()
	a, err := c.Ledger()
	require.NoError(t, err)
	assert.False(t, ethx.IsZero(a))

	c.LedgerAddress = "nope"
	_, err = c.Ledger()
	assert.Error(t, err)
}
