package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`

	// RoomCloseGrace is how long a room lingers after an explicit end
	// signal before its state is torn down.
	RoomCloseGrace time.Duration `mapstructure:"room_close_grace" yaml:"room_close_grace"`

	// VerifierURL is the base URL of the external face-verification
	// service. Empty disables identity verification.
	VerifierURL     string        `mapstructure:"verifier_url" yaml:"verifier_url"`
	VerifierTimeout time.Duration `mapstructure:"verifier_timeout" yaml:"verifier_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabasePath:      "interview.db",
		RoomCloseGrace:    30 * time.Second,
		VerifierURL:       "",
		VerifierTimeout:   10 * time.Second,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.RoomCloseGrace != 0 {
		c.RoomCloseGrace = other.RoomCloseGrace
	}
	if other.VerifierURL != "" {
		c.VerifierURL = other.VerifierURL
	}
	if other.VerifierTimeout != 0 {
		c.VerifierTimeout = other.VerifierTimeout
	}
}
