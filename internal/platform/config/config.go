package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// MigrationsPath is the golang-migrate source URL.
	MigrationsPath string

	// Background running-balance worker.
	BalanceWorkerEnabled  bool
	BalanceWorkerInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("BALANCE_WORKER_ENABLED", true)
	viper.SetDefault("BALANCE_WORKER_INTERVAL", "1m")

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:           viper.GetString("PGSQL_URL"),
		Port:                  viper.GetString("PORT"),
		IsProduction:          viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:         viper.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:        viper.GetString("MIGRATIONS_PATH"),
		BalanceWorkerEnabled:  viper.GetBool("BALANCE_WORKER_ENABLED"),
		BalanceWorkerInterval: viper.GetDuration("BALANCE_WORKER_INTERVAL"),
	}
	return cfg, nil
}
