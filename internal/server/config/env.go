package config

import "github.com/dmitrijs2005/safesend/internal/flagx"

const envPrefix = "SAFESEND_"

// parseEnv overlays SAFESEND_* variables. The dotenv file named by
// EnvFile is loaded first; variables already in the environment win over it.
func parseEnv(config *Config) {
	flagx.StringEnv(&config.EnvFile, envPrefix+"ENV_FILE")
	if err := flagx.LoadDotEnv(config.EnvFile); err != nil {
		panic(err)
	}

	flagx.StringEnv(&config.EndpointAddrGRPC, envPrefix+"GRPC_ADDR")
	flagx.StringEnv(&config.AdminAddr, envPrefix+"ADMIN_ADDR")
	flagx.StringEnv(&config.DatabaseDSN, envPrefix+"DATABASE_DSN")
	flagx.StringEnv(&config.SecretKey, envPrefix+"SECRET_KEY")
	flagx.StringEnv(&config.LedgerAddress, envPrefix+"LEDGER_ADDRESS")
	flagx.StringEnv(&config.NotificationAmount, envPrefix+"NOTIFICATION_AMOUNT")
	flagx.StringEnv(&config.MinDeposit, envPrefix+"MIN_DEPOSIT")
	flagx.StringEnv(&config.ClaimPolicy, envPrefix+"CLAIM_POLICY")
	flagx.StringEnv(&config.FaucetAmount, envPrefix+"FAUCET_AMOUNT")
	flagx.StringEnv(&config.S3RootUser, envPrefix+"S3_ROOT_USER")
	flagx.StringEnv(&config.S3RootPassword, envPrefix+"S3_ROOT_PASSWORD")
	flagx.StringEnv(&config.S3Bucket, envPrefix+"S3_BUCKET")
	flagx.StringEnv(&config.S3Region, envPrefix+"S3_REGION")
	flagx.StringEnv(&config.S3BaseEndpoint, envPrefix+"S3_BASE_ENDPOINT")
	flagx.StringEnv(&config.LogBackend, envPrefix+"LOG_BACKEND")
	flagx.StringEnv(&config.LogLevel, envPrefix+"LOG_LEVEL")

	for _, err := range []error{
		flagx.DurationEnv(&config.AccessTokenValidityDuration, envPrefix+"ACCESS_TOKEN_TTL"),
		flagx.DurationEnv(&config.RefreshTokenValidityDuration, envPrefix+"REFRESH_TOKEN_TTL"),
		flagx.DurationEnv(&config.ChallengeValidityDuration, envPrefix+"CHALLENGE_TTL"),
		flagx.IntEnv(&config.PlatformFeeBps, envPrefix+"PLATFORM_FEE_BPS"),
		flagx.IntEnv(&config.MaxExpiryMinutes, envPrefix+"MAX_EXPIRY_MINUTES"),
		flagx.IntEnv(&config.PoolSize, envPrefix+"POOL_SIZE"),
	} {
		if err != nil {
			panic(err)
		}
	}
}
