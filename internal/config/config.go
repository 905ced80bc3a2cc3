package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Staking   StakingConfig   `yaml:"staking"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// RedisConfig contains the optional balance-cache settings. When Enabled is
// false the service runs with a no-op cache.
type RedisConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	Password          string `yaml:"password"`
	DB                int    `yaml:"db"`
	BalanceTTLSeconds int    `yaml:"balance_ttl_seconds"`
}

// JWTConfig contains bearer-token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// LedgerConfig tunes the write path
type LedgerConfig struct {
	// ConflictRetries is how many extra attempts a conflicting atomic unit
	// gets before ErrConcurrentConflict surfaces to the caller.
	ConflictRetries int `yaml:"conflict_retries"`
}

// StakingConfig bounds the positions callers may open. MaxRewardRate is an
// annualized percentage kept as a string so it parses into a decimal, never
// a float.
type StakingConfig struct {
	MinAmount     int64  `yaml:"min_amount"`
	MinPeriodDays int    `yaml:"min_period_days"`
	MaxPeriodDays int    `yaml:"max_period_days"`
	MaxRewardRate string `yaml:"max_reward_rate"`
}

// SchedulerConfig contains cron expressions (with seconds) for the jobs
type SchedulerConfig struct {
	MatureStakes       string `yaml:"mature_stakes"`
	MaterializeRewards string `yaml:"materialize_rewards"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Redis
	if val := os.Getenv("REDIS_HOST"); val != "" {
		c.Redis.Host = val
		c.Redis.Enabled = true
	}
	if val := os.Getenv("REDIS_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Redis.Port)
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Redis validation
	if c.Redis.Enabled {
		if c.Redis.Host == "" {
			return fmt.Errorf("redis host is required when redis is enabled")
		}
		if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
			return fmt.Errorf("invalid redis port: %d", c.Redis.Port)
		}
		if c.Redis.BalanceTTLSeconds <= 0 {
			c.Redis.BalanceTTLSeconds = 60
		}
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Ledger defaults
	if c.Ledger.ConflictRetries <= 0 {
		c.Ledger.ConflictRetries = 3
	}

	// Staking defaults and bounds
	if c.Staking.MinAmount <= 0 {
		c.Staking.MinAmount = 1
	}
	if c.Staking.MinPeriodDays <= 0 {
		c.Staking.MinPeriodDays = 7
	}
	if c.Staking.MaxPeriodDays <= 0 {
		c.Staking.MaxPeriodDays = 365
	}
	if c.Staking.MaxPeriodDays < c.Staking.MinPeriodDays {
		return fmt.Errorf("staking max_period_days %d is below min_period_days %d", c.Staking.MaxPeriodDays, c.Staking.MinPeriodDays)
	}
	if c.Staking.MaxRewardRate == "" {
		c.Staking.MaxRewardRate = "20"
	}
	if _, err := decimal.NewFromString(c.Staking.MaxRewardRate); err != nil {
		return fmt.Errorf("invalid staking max_reward_rate %q: %w", c.Staking.MaxRewardRate, err)
	}

	// Scheduler defaults
	if c.Scheduler.MatureStakes == "" {
		c.Scheduler.MatureStakes = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.MaterializeRewards == "" {
		c.Scheduler.MaterializeRewards = "0 30 1 * * *" // 1:30 AM UTC
	}

	return nil
}

// MaxRewardRateDecimal returns the parsed staking rate ceiling. Validate
// guarantees the string parses.
func (c *Config) MaxRewardRateDecimal() decimal.Decimal {
	return decimal.RequireFromString(c.Staking.MaxRewardRate)
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
