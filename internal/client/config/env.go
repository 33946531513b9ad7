package config

import "github.com/dmitrijs2005/safesend/internal/flagx"

const envPrefix = "SAFESEND_"

func parseEnv(cfg *Config) {
	flagx.StringEnv(&cfg.EnvFile, envPrefix+"ENV_FILE")
	if err := flagx.LoadDotEnv(cfg.EnvFile); err != nil {
		panic(err)
	}

	flagx.StringEnv(&cfg.ServerEndpointAddr, envPrefix+"SERVER_ADDR")
	flagx.StringEnv(&cfg.KeystorePath, envPrefix+"KEYSTORE")
	flagx.StringEnv(&cfg.LocalDBPath, envPrefix+"LOCAL_DB")
	flagx.StringEnv(&cfg.LogLevel, envPrefix+"LOG_LEVEL")

	for _, err := range []error{
		flagx.DurationEnv(&cfg.OnlineCheckInterval, envPrefix+"ONLINE_CHECK_INTERVAL"),
		flagx.DurationEnv(&cfg.ReceiptTimeout, envPrefix+"RECEIPT_TIMEOUT"),
		flagx.BoolEnv(&cfg.IndexedHistory, envPrefix+"INDEXED_HISTORY"),
	} {
		if err != nil {
			panic(err)
		}
	}
}
