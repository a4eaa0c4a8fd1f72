package http

import (
	"context"
	"log/slog"

	"github.com/example/webapp-server/internal/logging"
)

// LoggerFromContext returns the connection scoped logger, or nil.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
