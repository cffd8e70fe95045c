package server

import (
	"context"
	"testing"

	"github.com/deppfellow/go-parameters/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:         "0",
			ReadTimeout:  1,
			WriteTimeout: 1,
			IdleTimeout:  1,
		},
		Params:        map[string]string{"id": "uint16", "name": "string"},
		Observability: config.DefaultObservabilityConfig(),
	}
}

func TestNew(t *testing.T) {
	logger := zerolog.Nop()

	s, err := New(testConfig(), &logger, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Schema.Len())
	assert.NotNil(t, s.LoggerService)
	assert.False(t, s.StartedAt.IsZero())
}

func TestNewInvalidSchema(t *testing.T) {
	logger := zerolog.Nop()
	cfg := testConfig()
	cfg.Params["id"] = "float"

	_, err := New(cfg, &logger, nil)
	assert.Error(t, err)
}

func TestStartWithoutSetup(t *testing.T) {
	logger := zerolog.Nop()

	s, err := New(testConfig(), &logger, nil)
	require.NoError(t, err)

	assert.Error(t, s.Start())
	assert.NoError(t, s.Shutdown(context.Background()))
}
