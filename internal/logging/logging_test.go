package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/lquery/internal/config"
)

func TestSetupLoggerConsoleOnly(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger, closeFn, err := SetupLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	assert.NilError(t, err)
	defer closeFn()

	logger.Info("hidden")
	logger.Warn("shown", slog.String("run_id", "r1"))

	out := buf.String()
	assert.Assert(t, !strings.Contains(out, "hidden"))
	assert.Assert(t, strings.Contains(out, `"msg":"shown"`), out)
	assert.Assert(t, strings.Contains(out, `"run_id":"r1"`), out)
}

func TestSetupLoggerRejectsBadLevel(t *testing.T) {
	_, _, err := SetupLogger(config.LogConfig{Level: "noisy"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "log.level")
}

// TestMultiHandlerFansOut verifies each handler receives the record
func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	m := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	assert.Assert(t, m.Enabled(context.Background(), slog.LevelDebug))

	logger := slog.New(m).With(slog.String("component", "engine"))
	logger.Info("sorted")

	assert.Assert(t, strings.Contains(a.String(), "component=engine"))
	assert.Equal(t, b.String(), "")
}
