// Package config reads process configuration from the environment. A .env
// file is honoured via godotenv's autoload in cmd/server.
package config

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Config is the full server configuration.
type Config struct {
	// Port is the TCP listen port (SERVER_PORT, default 8788).
	Port int
	// LogLevel is the logrus level (LOG_LEVEL, default debug).
	LogLevel logrus.Level
}

// Load reads configuration from the environment, falling back to defaults on
// missing or unparseable values.
func Load() Config {
	cfg := Config{
		Port:     8788,
		LogLevel: logrus.DebugLevel,
	}

	if raw := os.Getenv("SERVER_PORT"); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 && port < 65536 {
			cfg.Port = port
		}
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if level, err := logrus.ParseLevel(raw); err == nil {
			cfg.LogLevel = level
		}
	}
	return cfg
}
