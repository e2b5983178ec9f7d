package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banki/banki-srs/internal/config"
	"github.com/banki/banki-srs/internal/platform/logger"
)

func TestNew_LevelAndFormat(t *testing.T) {
	t.Parallel()

	buf := &logger.TestLogBuffer{}
	l, err := logger.New(buf, config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", slog.String("component", "test"))

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "test", entries[0]["component"])
}

func TestNew_TextFormat(t *testing.T) {
	t.Parallel()

	buf := &logger.TestLogBuffer{}
	l, err := logger.New(buf, config.LoggingConfig{Level: "debug", Format: "text"})
	require.NoError(t, err)

	l.Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNew_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := logger.New(&logger.TestLogBuffer{}, config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		got, ok := logger.ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}

func TestFromContextOrDefault(t *testing.T) {
	defaultLogger := slog.Default()
	_, customLogger := logger.NewTestLogger()

	tests := []struct {
		name     string
		ctx      context.Context
		expected *slog.Logger
	}{
		{
			name:     "nil_context_returns_default",
			ctx:      nil,
			expected: defaultLogger,
		},
		{
			name:     "context_without_logger_returns_default",
			ctx:      context.Background(),
			expected: defaultLogger,
		},
		{
			name:     "context_with_logger_returns_context_logger",
			ctx:      logger.WithLogger(context.Background(), customLogger),
			expected: customLogger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := logger.FromContextOrDefault(tt.ctx, defaultLogger)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestWithLogger(t *testing.T) {
	t.Run("valid_logger", func(t *testing.T) {
		_, customLogger := logger.NewTestLogger()
		ctx := logger.WithLogger(context.Background(), customLogger)

		assert.Equal(t, customLogger, logger.FromContext(ctx))
	})

	t.Run("nil_logger_panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.WithLogger(context.Background(), nil)
		})
	})
}
