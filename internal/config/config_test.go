package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_RejectsOutOfRangePort(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 0},
		Database: DatabaseConfig{URL: "postgres://localhost/db"},
	}
	assert.Error(t, validate(cfg))

	cfg.Server.Port = 70000
	assert.Error(t, validate(cfg))
}

func TestValidate_RejectsMissingDatabaseURL(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: 8080}}
	assert.Error(t, validate(cfg))
}

func TestValidate_AcceptsWellFormedConfig(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{URL: "postgres://localhost/db"},
	}
	assert.NoError(t, validate(cfg))
}
