package http

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/webapp-server/internal/application"
	"github.com/example/webapp-server/internal/protocol"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = fallback
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"handler", handlerName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// errorKind extends application.ErrorKind with wire level failures.
func errorKind(err error) string {
	var ioErr *protocol.IOError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, protocol.ErrMalformedRequestLine):
		return "malformed_request"
	case errors.As(err, &ioErr):
		return "io"
	}
	return application.ErrorKind(err)
}
