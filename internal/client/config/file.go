package config

import (
	"os"

	"github.com/dmitrijs2005/safesend/internal/flagx"
	"github.com/dmitrijs2005/safesend/internal/timex"
	"sigs.k8s.io/yaml"
)

// FileConfig is a DTO used exclusively for file unmarshalling. YAML and JSON
// share the json tags; intervals are "3s" style strings or nanoseconds.
type FileConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	KeystorePath        string         `json:"keystore_path"`
	LocalDBPath         string         `json:"local_db_path"`
	IndexedHistory      *bool          `json:"indexed_history"`
	ReceiptTimeout      timex.Duration `json:"receipt_timeout"`
	LogLevel            string         `json:"log_level"`
	EnvFile             string         `json:"env_file"`
}

// parseFile overlays Config with values from the file named by -c or
// -config. Keys missing from the file leave the current value alone.
// Panics on read or unmarshal errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		panic(err)
	}

	if fc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = fc.ServerEndpointAddr
	}
	if fc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.KeystorePath != "" {
		cfg.KeystorePath = fc.KeystorePath
	}
	if fc.LocalDBPath != "" {
		cfg.LocalDBPath = fc.LocalDBPath
	}
	if fc.IndexedHistory != nil {
		cfg.IndexedHistory = *fc.IndexedHistory
	}
	if fc.ReceiptTimeout.Duration != 0 {
		cfg.ReceiptTimeout = fc.ReceiptTimeout.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.EnvFile != "" {
		cfg.EnvFile = fc.EnvFile
	}
}
