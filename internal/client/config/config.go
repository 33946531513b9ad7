package config

import "time"

// Config holds runtime settings for the SafeSend CLI.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	KeystorePath        string
	LocalDBPath         string
	// IndexedHistory lists deposits through the server-side index instead
	// of scanning every id.
	IndexedHistory bool
	ReceiptTimeout time.Duration
	LogLevel       string
	EnvFile        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.KeystorePath = "safesend-keystore.json"
	c.LocalDBPath = "safesend.db"
	c.IndexedHistory = false
	c.ReceiptTimeout = 2 * time.Minute
	c.LogLevel = "warn"
	c.EnvFile = ".env"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present), SAFESEND_* environment variables and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
