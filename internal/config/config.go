// Package config defines the application configuration and its loading rules.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Realtime RealtimeConfig `mapstructure:"realtime" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
// Token issuance happens in the external identity service; this server only
// validates tokens signed with the shared secret.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// RealtimeConfig tunes the live notification fan-out.
type RealtimeConfig struct {
	// SubscriberBuffer is the per-connection event buffer. A subscriber
	// whose buffer is full misses the event; the durable notification
	// record is the recovery path.
	SubscriberBuffer int `mapstructure:"subscriber_buffer" validate:"required,gt=0"`
}
