package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/quotedesk/quotebot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{name: "debug level", logLevel: "debug"},
		{name: "info level", logLevel: "info"},
		{name: "warn level", logLevel: "warn"},
		{name: "error level", logLevel: "error"},
		{name: "mixed case", logLevel: "DeBuG"},
		{name: "invalid level falls back to info", logLevel: "verbose"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := Setup(config.ServerConfig{Port: 8080, LogLevel: tc.logLevel})

			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.Same(t, logger, slog.Default())
		})
	}
}

func TestFromContextOrDefault(t *testing.T) {
	stored := slog.New(slog.NewTextHandler(io.Discard, nil))
	def := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("logger stored in context", func(t *testing.T) {
		ctx := WithLogger(context.Background(), stored)
		assert.Same(t, stored, FromContextOrDefault(ctx, def))
	})

	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, def, FromContextOrDefault(context.Background(), def))
	})

	t.Run("falls back to slog default", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))
	})
}
