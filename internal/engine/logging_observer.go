package engine

import (
	"context"
	"log/slog"
)

// LoggingObserver is a simple observer that logs all events using structured logging
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a new logging observer; a nil logger means slog.Default()
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent implements the Observer interface
// Failures are logged at error level, every other phase at debug level
func (lo *LoggingObserver) OnEvent(event Event) {
	level := slog.LevelDebug
	if event.Type == EventRunFailed {
		level = slog.LevelError
	}
	lo.logger.Log(context.Background(), level, "engine_lifecycle",
		"event", event.Type,
		"run_id", event.RunID,
		"operation", event.Operation,
		"timestamp", event.Timestamp,
		"data", event.Data,
	)
}
