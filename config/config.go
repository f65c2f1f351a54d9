// Package config loads application configuration from environment
// variables (optionally via a .env file) into validated structs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Loads a .env file into the process environment before anything
	// reads env vars.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces every variable this service reads. Nesting uses a
// double underscore: UMKM_AUTH__SECRET_KEY maps to auth.secret_key.
const envPrefix = "UMKM_"

type Config struct {
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Auth     AuthConfig     `koanf:"auth" validate:"required"`
	Storage  StorageConfig  `koanf:"storage" validate:"required"`
}

type ServerConfig struct {
	Port string `koanf:"port" validate:"required"`
}

type DatabaseConfig struct {
	Host     string `koanf:"host" validate:"required"`
	Port     int    `koanf:"port" validate:"required"`
	User     string `koanf:"user" validate:"required"`
	Password string `koanf:"password" validate:"required"`
	Name     string `koanf:"name" validate:"required"`
	SSLMode  string `koanf:"ssl_mode"`
}

// DSN renders the connection string for the postgres driver.
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, sslMode)
}

type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
	// TokenTTLHours bounds the lifetime of issued tokens. Defaults to 24.
	TokenTTLHours int `koanf:"token_ttl_hours"`
}

// TokenTTL returns the configured token lifetime as a duration.
func (a AuthConfig) TokenTTL() time.Duration {
	hours := a.TokenTTLHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

type StorageConfig struct {
	Bucket string `koanf:"bucket" validate:"required"`
	Region string `koanf:"region" validate:"required"`
	// PublicBaseURL is the externally reachable base under which uploaded
	// objects are served, e.g. a CDN or the bucket website endpoint.
	PublicBaseURL string `koanf:"public_base_url" validate:"required,url"`
}

// Load reads, decodes and validates the full configuration.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
