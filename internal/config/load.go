package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "TAREAS"

// Keys without defaults still need an explicit binding so that AutomaticEnv
// picks them up during Unmarshal.
var boundKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"generation.system_user_id",
	"mail.host",
	"mail.username",
	"mail.password",
	"mail.from_address",
	"telegram.token",
	"telegram.chat_id",
}

// Load configuration from a .env file, an optional config.yaml and environment
// variables. Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

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
	for _, key := range boundKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct-tag constraints plus the rules tags cannot express.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := cfg.Generation.Location(); err != nil {
		return fmt.Errorf("config validation failed: invalid generation.timezone %q: %w",
			cfg.Generation.Timezone, err)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origin", "http://localhost:5173")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("generation.timezone", "Europe/Madrid")
	v.SetDefault("generation.template_timeout", "10s")
	v.SetDefault("generation.concurrency", 1)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.spec", "0 1 0 * * *")

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from_name", "Tareas Pendientes")

	v.SetDefault("telegram.enabled", false)

	v.SetDefault("worker.worker_count", 2)
	v.SetDefault("worker.queue_size", 100)
}
