package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
)

func TestHandlerOptions_Level(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		debug    bool
		expected slog.Level
	}{
		{name: "default", expected: slog.LevelInfo},
		{name: "env debug", env: "debug", expected: slog.LevelDebug},
		{name: "env warning", env: "WARNING", expected: slog.LevelWarn},
		{name: "env error", env: "error", expected: slog.LevelError},
		{name: "unknown value", env: "verbose", expected: slog.LevelInfo},
		{name: "debug flag wins", env: "error", debug: true, expected: slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SNDEPLOY_LOG_LEVEL", tt.env)
			opts := handlerOptions(&config.RuntimeConfig{Debug: tt.debug})
			assert.Equal(t, tt.expected, opts.Level.Level())
			assert.Equal(t, tt.debug, opts.AddSource)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Setenv("SNDEPLOY_LOG_LEVEL", "")
	log := NewLogger(&config.RuntimeConfig{})
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/deploy_contracts.go", shortPath("/home/dev/src/sndeploy/internal/usecase/deploy_contracts.go"))
	assert.Equal(t, "main.go", shortPath("/elsewhere/main.go"))
}
