package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()
	assert.Equal(t, 8788, cfg.Port)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LOG_LEVEL", "warning")

	cfg := Load()
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, logrus.WarnLevel, cfg.LogLevel)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("LOG_LEVEL", "shouting")

	cfg := Load()
	assert.Equal(t, 8788, cfg.Port)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
}
