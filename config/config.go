package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

/* Config holds every runtime setting, loaded from a .env file with
 * environment-variable overrides. All durations are parsed from Go
 * duration strings ("5m", "1s").
 */
type Config struct {
	Port string `mapstructure:"PORT"`

	// Postgres connection string for sessions, usage records and ledger.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis backs the webhook delivery queue and the dead-letter store.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Meeting-bot agent API.
	AgentBaseURL string `mapstructure:"AGENT_BASE_URL"`
	AgentAPIKey  string `mapstructure:"AGENT_API_KEY"`
	// AgentInboundSecret verifies signatures on events the agent pushes
	// to us. Empty disables verification.
	AgentInboundSecret string `mapstructure:"AGENT_INBOUND_SECRET"`

	// Outbound notification targets registry.
	TargetsFile string `mapstructure:"TARGETS_FILE"`

	// Webhook delivery tuning.
	WebhookBatchSize     int           `mapstructure:"WEBHOOK_BATCH_SIZE"`
	WebhookLeaseDuration time.Duration `mapstructure:"WEBHOOK_LEASE_DURATION"`
	WebhookPollInterval  time.Duration `mapstructure:"WEBHOOK_POLL_INTERVAL"`
	WebhookSweepInterval time.Duration `mapstructure:"WEBHOOK_SWEEP_INTERVAL"`

	// Usage backfill tuning.
	BackfillInterval time.Duration `mapstructure:"BACKFILL_INTERVAL"`

	// Monthly recording quota in billable minutes. Zero or negative
	// disables metering.
	QuotaMonthlyMinutes int `mapstructure:"QUOTA_MONTHLY_MINUTES"`
}

func GetConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("TARGETS_FILE", "targets.yaml")
	viper.SetDefault("WEBHOOK_BATCH_SIZE", 10)
	viper.SetDefault("WEBHOOK_LEASE_DURATION", "5m")
	viper.SetDefault("WEBHOOK_POLL_INTERVAL", "5s")
	viper.SetDefault("WEBHOOK_SWEEP_INTERVAL", "1m")
	viper.SetDefault("BACKFILL_INTERVAL", "1h")
	viper.SetDefault("QUOTA_MONTHLY_MINUTES", 0)

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine when everything comes from the
		// environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	return &config, nil
}
