package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diceparty/internal/config"
)

func TestLoad_AppliesDefaultsAndEnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/diceparty?sslmode=disable")
	t.Setenv("KAFKA_TOPIC", "custom-topic")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://user:pass@db:5432/diceparty?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, "custom-topic", cfg.Kafka.Topic)
	assert.Equal(t, "development", cfg.Environment)
}
