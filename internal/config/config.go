package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Logging   LoggingConfig   `mapstructure:"logging"   validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Review    ReviewConfig    `mapstructure:"review"    validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Events    EventsConfig    `mapstructure:"events"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"     validate:"gt=0"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// RateLimit is the number of requests per minute allowed per client IP.
	// Zero disables rate limiting.
	RateLimit int `mapstructure:"rate_limit" validate:"gte=0"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig contains all database-related configuration settings.
// Driver "memory" keeps all state in process and ignores the other fields.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"             validate:"required,oneof=postgres memory"`
	URL             string        `mapstructure:"url"                validate:"required_if=Driver postgres"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"     validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"     validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"  validate:"gte=0"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"gte=0"`
	// SeedFile is a YAML file of decks and cards loaded by the memory driver.
	SeedFile string `mapstructure:"seed_file"`
}

// ReviewConfig tunes the review session driver.
type ReviewConfig struct {
	// MaxConflictRetries is the number of attempts a review submission gets
	// when a concurrent update to the same card wins the race.
	MaxConflictRetries uint          `mapstructure:"max_conflict_retries" validate:"gte=1,lte=20"`
	ConflictRetryDelay time.Duration `mapstructure:"conflict_retry_delay" validate:"gte=0"`
	DefaultDueLimit    int           `mapstructure:"default_due_limit"    validate:"gte=0"`
	MaxDueLimit        int           `mapstructure:"max_due_limit"        validate:"gte=1"`
	HistoryLimit       int           `mapstructure:"history_limit"        validate:"gte=1"`
	StatsDays          int           `mapstructure:"stats_days"           validate:"gte=1,lte=365"`
}

// SchedulerConfig overrides the SM-2 constants. Zero values keep the
// built-in defaults.
type SchedulerConfig struct {
	FirstInterval  int     `mapstructure:"first_interval"   validate:"gte=0"`
	SecondInterval int     `mapstructure:"second_interval"  validate:"gte=0"`
	MinEaseFactor  float64 `mapstructure:"min_ease_factor"  validate:"gte=0"`
	MaxEaseFactor  float64 `mapstructure:"max_ease_factor"  validate:"gte=0"`
	EaseQualityCap int     `mapstructure:"ease_quality_cap" validate:"gte=0,lte=5"`
}

// EventsConfig sizes the asynchronous event dispatcher.
type EventsConfig struct {
	Workers        int           `mapstructure:"workers"         validate:"gte=1,lte=64"`
	QueueSize      int           `mapstructure:"queue_size"      validate:"gte=0"`
	HandlerTimeout time.Duration `mapstructure:"handler_timeout" validate:"gte=0"`
}
