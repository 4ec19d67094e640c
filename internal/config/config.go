package config

import (
	"time"

	"github.com/google/uuid"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Mail       MailConfig       `mapstructure:"mail"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Worker     WorkerConfig     `mapstructure:"worker"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port          int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel      string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the storage backend.
	Driver          string        `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL             string        `mapstructure:"url" validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// AuthConfig contains the settings used to validate bearer tokens issued by the login flow.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// GenerationConfig controls the recurring-task sweep.
type GenerationConfig struct {
	// SystemUserID is the account recorded as creator of generated tasks.
	SystemUserID    string        `mapstructure:"system_user_id" validate:"required,uuid"`
	Timezone        string        `mapstructure:"timezone" validate:"required"`
	TemplateTimeout time.Duration `mapstructure:"template_timeout" validate:"gt=0"`
	Concurrency     int           `mapstructure:"concurrency" validate:"gte=1,lte=16"`
}

// SystemUser returns the parsed SystemUserID. Load guarantees it is a valid UUID.
func (g GenerationConfig) SystemUser() uuid.UUID {
	id, _ := uuid.Parse(g.SystemUserID)
	return id
}

// Location returns the household time zone.
func (g GenerationConfig) Location() (*time.Location, error) {
	return time.LoadLocation(g.Timezone)
}

// SchedulerConfig configures the optional nightly sweep.
type SchedulerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Spec is a six-field cron expression (seconds first).
	Spec string `mapstructure:"spec" validate:"required_if=Enabled true"`
}

// MailConfig configures SMTP delivery of assignment emails.
type MailConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Host        string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port        int    `mapstructure:"port" validate:"gte=0,lt=65536"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromName    string `mapstructure:"from_name"`
	FromAddress string `mapstructure:"from_address" validate:"required_if=Enabled true,omitempty,email"`
}

// TelegramConfig configures the household chat notifier.
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token" validate:"required_if=Enabled true"`
	ChatID  int64  `mapstructure:"chat_id" validate:"required_if=Enabled true"`
}

// WorkerConfig sizes the background delivery pool.
type WorkerConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gte=1"`
	QueueSize   int `mapstructure:"queue_size" validate:"gte=1"`
}
