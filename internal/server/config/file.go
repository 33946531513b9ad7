package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/safesend/internal/flagx"
	"github.com/dmitrijs2005/safesend/internal/timex"
	"sigs.k8s.io/yaml"
)

// FileConfig is the on-disk shape. YAML is converted to JSON before
// decoding, so the json tags serve both formats. Durations accept "90s"
// style strings or integer nanoseconds.
type FileConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	AdminAddr                    string         `json:"admin_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	ChallengeValidityDuration    timex.Duration `json:"challenge_validity_duration"`

	LedgerAddress      string `json:"ledger_address"`
	NotificationAmount string `json:"notification_amount"`
	MinDeposit         string `json:"min_deposit"`
	PlatformFeeBps     *int   `json:"platform_fee_bps"`
	ClaimPolicy        string `json:"claim_policy"`
	FaucetAmount       string `json:"faucet_amount"`
	MaxExpiryMinutes   int    `json:"max_expiry_minutes"`
	PoolSize           int    `json:"pool_size"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`

	LogBackend string `json:"log_backend"`
	LogLevel   string `json:"log_level"`
	EnvFile    string `json:"env_file"`
}

// parseFile loads the file named by -c/-config, if any, into config. Only
// keys present in the file override existing values. A fee of 0 bps is a
// legal setting, hence the pointer.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	if err := yaml.Unmarshal(data, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.AdminAddr, c.AdminAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setDuration(&config.ChallengeValidityDuration, c.ChallengeValidityDuration)

	setString(&config.LedgerAddress, c.LedgerAddress)
	setString(&config.NotificationAmount, c.NotificationAmount)
	setString(&config.MinDeposit, c.MinDeposit)
	if c.PlatformFeeBps != nil {
		config.PlatformFeeBps = *c.PlatformFeeBps
	}
	setString(&config.ClaimPolicy, c.ClaimPolicy)
	setString(&config.FaucetAmount, c.FaucetAmount)
	setInt(&config.MaxExpiryMinutes, c.MaxExpiryMinutes)
	setInt(&config.PoolSize, c.PoolSize)

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.EnvFile, c.EnvFile)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
