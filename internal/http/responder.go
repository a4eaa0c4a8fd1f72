package http

import (
	"context"
	"log/slog"

	"github.com/example/webapp-server/internal/protocol"
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

// send hands resp to w. Write failures are returned to the connection loop,
// which abandons the connection.
func (r responder) send(ctx context.Context, w *protocol.ResponseWriter, resp *protocol.Response) error {
	if err := w.Send(resp); err != nil {
		return err
	}
	attrs := []any{"status", int(w.Status()), "bytes", w.Written()}
	if resp.Location != "" {
		attrs = append(attrs, "location", resp.Location)
	}
	r.loggerFor(ctx).DebugContext(ctx, "response written", attrs...)
	return nil
}

func (r responder) ok(ctx context.Context, w *protocol.ResponseWriter, contentType string, body []byte) error {
	return r.send(ctx, w, protocol.OK(contentType, body))
}

func (r responder) redirect(ctx context.Context, w *protocol.ResponseWriter, location string) error {
	return r.send(ctx, w, protocol.Redirect(location))
}

func (r responder) redirectWithCookie(ctx context.Context, w *protocol.ResponseWriter, location, cookie string) error {
	return r.send(ctx, w, protocol.RedirectWithCookie(location, cookie))
}
