package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), logger)

	FromContext(ctx).Info("hello", "module", "test")
	assert.Contains(t, buf.String(), "hello")
}
