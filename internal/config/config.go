// Package config loads aegisauth's runtime options.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration recognized by the auth server and broker.
type Config struct {
	// Network
	AuthBindAddress   string `yaml:"auth_bind_address"`
	BrokerBindAddress string `yaml:"broker_bind_address"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Admission control
	MaxConcurrentUsers int `yaml:"max_concurrent_users"`

	// Two-factor
	UsePIN          bool `yaml:"use_pin"`
	UseMatrixCard   bool `yaml:"use_matrix_card"`
	RandomizePinGrid bool `yaml:"randomize_pin_grid"`

	// Database (optional; empty DSN selects the in-memory credential source)
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the optional
// persistent credential source.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string, or "" if no database is
// configured (DBName empty selects the in-memory credential source).
func (d DatabaseConfig) DSN() string {
	if d.DBName == "" {
		return ""
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns a Config with sensible defaults for local/dev runs.
func Default() Config {
	return Config{
		AuthBindAddress:   "0.0.0.0:3724",
		BrokerBindAddress: "127.0.0.1:3725",
		LogLevel:          "info",

		MaxConcurrentUsers: 1000,

		UsePIN:           false,
		UseMatrixCard:    false,
		RandomizePinGrid: false,

		Database: DatabaseConfig{
			Host:    "127.0.0.1",
			Port:    5432,
			User:    "aegisauth",
			Password: "aegisauth",
			DBName:  "",
			SSLMode: "disable",
		},
	}
}

// Load reads config from a YAML file. If the file doesn't exist, returns
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
