package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "TASKTRACK"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.driver", "pgx")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("tasks.default_owner_id", 1)
	v.SetDefault("tasks.transition_policy", "last-write-wins")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.prefix", "tasktrack")
	v.SetDefault("cache.ttl_seconds", 300)
}
