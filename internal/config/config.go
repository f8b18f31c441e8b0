// Package config provides configuration loading and validation for the CLI and the API server.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is prepended to every environment variable read by Load
const EnvPrefix = "SKILLMON"

// Config represents the configuration that can be loaded from a YAML/JSON file and SKILLMON_* env vars.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Listings   string `mapstructure:"listings"`   // Path to the listing corpus (CSV or JSON)
	Dictionary string `mapstructure:"dictionary"` // Override dictionary YAML; empty uses the embedded one
	Catalog    string `mapstructure:"catalog"`    // Learning resource catalog JSON
	UsersDir   string `mapstructure:"users_dir"`  // Directory of user profile JSON files

	// Outputs
	OutputDir string `mapstructure:"output_dir"`

	// Limits
	TopN        int `mapstructure:"top_n"`        // Demanded skills considered by the gap engine
	MaxCritical int `mapstructure:"max_critical"` // Critical skills per recommendation
	Workers     int `mapstructure:"workers"`      // Concurrent users in batch recommendations

	// Backends
	DatabaseURL   string        `mapstructure:"database_url"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	KafkaBrokers  []string      `mapstructure:"kafka_brokers"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	// Server
	Port               int    `mapstructure:"port"`
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Catalog:            "data/resources.json",
		UsersDir:           "data/users",
		OutputDir:          "output",
		TopN:               20,
		MaxCritical:        5,
		Workers:            4,
		CacheTTL:           time.Hour,
		KafkaBrokers:       []string{},
		LogLevel:           "info",
		Port:               8080,
		JWTExpirationHours: 24,
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("listings", d.Listings)
	v.SetDefault("dictionary", d.Dictionary)
	v.SetDefault("catalog", d.Catalog)
	v.SetDefault("users_dir", d.UsersDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("max_critical", d.MaxCritical)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("redis_addr", d.RedisAddr)
	v.SetDefault("redis_password", d.RedisPassword)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("kafka_brokers", d.KafkaBrokers)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("port", d.Port)
	v.SetDefault("jwt_secret", d.JWTSecret)
	v.SetDefault("jwt_expiration_hours", d.JWTExpirationHours)
}

// Load reads configuration from path (optional) layered under SKILLMON_* environment variables.
// Returns an error if a given file cannot be read or parsed.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed names shared with other tooling
	_ = v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("redis_addr", EnvPrefix+"_REDIS_ADDR", "REDIS_ADDR")
	_ = v.BindEnv("jwt_secret", EnvPrefix+"_JWT_SECRET", "JWT_SECRET")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.KafkaBrokers = splitBrokers(cfg.KafkaBrokers)

	return &cfg, nil
}

// splitBrokers accepts both a YAML list and a single comma-separated env value
func splitBrokers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, b := range strings.Split(item, ",") {
			if b = strings.TrimSpace(b); b != "" {
				out = append(out, b)
			}
		}
	}
	return out
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.TopN < 0 {
		return fmt.Errorf("config error: 'top_n' must be non-negative")
	}
	if c.MaxCritical < 0 {
		return fmt.Errorf("config error: 'max_critical' must be non-negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config error: 'cache_ttl' must be non-negative")
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("config error: invalid 'log_level' %q", c.LogLevel)
		}
	}

	if c.Listings != "" {
		if _, err := os.Stat(c.Listings); os.IsNotExist(err) {
			return fmt.Errorf("config error: listings file not found: %s", c.Listings)
		}
	}
	if c.Dictionary != "" {
		if _, err := os.Stat(c.Dictionary); os.IsNotExist(err) {
			return fmt.Errorf("config error: dictionary file not found: %s", c.Dictionary)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Listings == "" {
		result.Listings = defaults.Listings
	}
	if result.Dictionary == "" {
		result.Dictionary = defaults.Dictionary
	}
	if result.Catalog == "" {
		result.Catalog = defaults.Catalog
	}
	if result.UsersDir == "" {
		result.UsersDir = defaults.UsersDir
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.RedisPassword == "" {
		result.RedisPassword = defaults.RedisPassword
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}
	if result.JWTSecret == "" {
		result.JWTSecret = defaults.JWTSecret
	}
	if len(result.KafkaBrokers) == 0 {
		result.KafkaBrokers = defaults.KafkaBrokers
	}

	// Numeric fields: use default if zero
	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}
	if result.MaxCritical == 0 {
		result.MaxCritical = defaults.MaxCritical
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.CacheTTL == 0 {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.JWTExpirationHours == 0 {
		result.JWTExpirationHours = defaults.JWTExpirationHours
	}

	return result
}

// JWT returns the token configuration derived from c
func (c *Config) JWT() (*JWTConfig, error) {
	return NewJWTConfig(c.JWTSecret, c.JWTExpirationHours)
}
