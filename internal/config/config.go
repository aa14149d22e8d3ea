package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Speller   SpellerConfig   `mapstructure:"speller" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"required,oneof=postgres memory"`
	URL             string        `mapstructure:"url" validate:"required_if=Driver postgres"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// SpellerConfig configures the client of the spelling service.
type SpellerConfig struct {
	APIURL         string        `mapstructure:"api_url" validate:"required,url"`
	MaxChunkSize   int           `mapstructure:"max_chunk_size" validate:"required,gt=0"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"required,gt=0"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"required,gt=0"`
	MaxAttempts    int           `mapstructure:"max_attempts" validate:"required,gte=1,lte=10"`
	RetryDelay     time.Duration `mapstructure:"retry_delay" validate:"gte=0"`
}

// SchedulerConfig configures the drain and recovery loops.
type SchedulerConfig struct {
	DrainInterval    time.Duration `mapstructure:"drain_interval" validate:"required,gt=0"`
	RecoveryInterval time.Duration `mapstructure:"recovery_interval" validate:"required,gt=0"`
	BatchSize        int           `mapstructure:"batch_size" validate:"required,gt=0"`
	StuckTaskAge     time.Duration `mapstructure:"stuck_task_age" validate:"required,min=1m"`
}
