package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	// Server settings
	Port string `yaml:"port"`

	// Storage settings. Backend is one of "memory", "postgres" or "mysql".
	Backend     string `yaml:"backend"`
	DatabaseDSN string `yaml:"database_dsn"`
	TablePrefix string `yaml:"table_prefix"`

	// Session settings. When RedisAddr is set, sessions live in Redis
	// instead of the primary store.
	SessionSecret string `yaml:"session_secret"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	// Paths
	TemplatesPath string `yaml:"templates_path"`
}

// DefaultConfig returns configuration with sensible defaults. Environment
// variables override the defaults; a config file overrides both.
func DefaultConfig() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Backend:       getEnv("STORE_BACKEND", "memory"),
		DatabaseDSN:   getEnv("DATABASE_URL", ""),
		TablePrefix:   getEnv("TABLE_PREFIX", "gotodo_"),
		SessionSecret: getEnv("SESSION_SECRET", "dev-only-session-secret-change-me!!"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		TemplatesPath: getEnv("TEMPLATES_PATH", "./templates"),
	}
}

// LoadConfig builds the configuration, optionally merging a YAML file on
// top of the defaults. An empty path means defaults only.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
