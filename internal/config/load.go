package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "ERRORFREE"

// DefaultSpellerURL is the public endpoint of the Yandex Speller checkTexts method.
const DefaultSpellerURL = "https://speller.yandex.net/services/spellservice.json/checkTexts"

// Load reads configuration from defaults, an optional config file and
// environment variables, in increasing order of precedence.
// An empty configFile looks for errorfree.yaml in the working directory.
func Load(configFile string) (*Config, error) {
	return LoadFrom(viper.New(), configFile)
}

// LoadFrom is Load on a caller-provided viper instance, so command-line flags
// bound to v take precedence over every other source.
func LoadFrom(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("errorfree")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers a default for every key. AutomaticEnv only overrides
// keys viper already knows about.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("speller.api_url", DefaultSpellerURL)
	v.SetDefault("speller.max_chunk_size", 10000)
	v.SetDefault("speller.connect_timeout", "5s")
	v.SetDefault("speller.read_timeout", "10s")
	v.SetDefault("speller.max_attempts", 3)
	v.SetDefault("speller.retry_delay", "1s")

	v.SetDefault("scheduler.drain_interval", "30s")
	v.SetDefault("scheduler.recovery_interval", "5m")
	v.SetDefault("scheduler.batch_size", 10)
	v.SetDefault("scheduler.stuck_task_age", "30m")
}
