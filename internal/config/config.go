package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Tasks    TasksConfig    `mapstructure:"tasks" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
//
// Driver selects the database/sql driver: "pgx" and "postgres" (lib/pq) talk to
// PostgreSQL, "sqlite3" opens a SQLite file or in-memory database.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=pgx postgres sqlite3"`
	URL          string `mapstructure:"url" validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
}

// AuthConfig contains authentication settings. Authentication is disabled
// when JWTSecret is empty.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gte=1"`
}

// TasksConfig holds task-domain defaults.
type TasksConfig struct {
	// DefaultOwnerID is assigned to tasks created without a positive owner.
	DefaultOwnerID int64 `mapstructure:"default_owner_id" validate:"required,gt=0"`
	// TransitionPolicy is "last-write-wins" or "strict".
	TransitionPolicy string `mapstructure:"transition_policy" validate:"required,oneof=last-write-wins strict"`
}

// CacheConfig configures the Redis-backed list cache.
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	RedisAddr  string `mapstructure:"redis_addr" validate:"required_if=Enabled true"`
	Prefix     string `mapstructure:"prefix"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"gte=0"`
}
