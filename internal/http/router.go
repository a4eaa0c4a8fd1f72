package http

import (
	"context"
	"log/slog"

	"github.com/example/webapp-server/internal/protocol"
)

// HandlerFunc produces and sends the response for one request. A returned
// error means the connection is closed without further output.
type HandlerFunc func(ctx context.Context, w *protocol.ResponseWriter, req *protocol.Request) error

type RouterConfig struct {
	Auth   *AuthHandler
	Users  *UserHandler
	Static *StaticResolver
	Gate   *AccessGate
	Logger *slog.Logger
}

// Router matches requests against a table fixed at construction.
type Router struct {
	routes    map[string]HandlerFunc
	static    *StaticResolver
	gate      *AccessGate
	responder responder
	logger    *slog.Logger
}

func NewRouter(cfg RouterConfig) *Router {
	base := defaultLogger(cfg.Logger)
	r := &Router{
		routes:    make(map[string]HandlerFunc),
		static:    cfg.Static,
		gate:      cfg.Gate,
		responder: newResponder(base),
		logger:    base,
	}

	if cfg.Users != nil {
		r.handle("POST", "/user/create", cfg.Users.Create)
		r.handle("GET", UserListPath, cfg.Users.List)
	}
	if cfg.Auth != nil {
		r.handle("POST", "/user/login", cfg.Auth.Login)
	}

	return r
}

func (r *Router) handle(method, path string, h HandlerFunc) {
	r.routes[routeKey(method, path)] = h
}

// routeKey is method and target concatenated with no normalization.
func routeKey(method, target string) string {
	return method + target
}

// Lookup returns the handler registered for method and target.
func (r *Router) Lookup(method, target string) (HandlerFunc, bool) {
	h, ok := r.routes[routeKey(method, target)]
	return h, ok
}

// Dispatch runs the access gate, then the matching route, then the static
// fallback. A denied request is redirected to the login page and nothing
// else runs.
func (r *Router) Dispatch(ctx context.Context, w *protocol.ResponseWriter, req *protocol.Request) error {
	logger := handlerLogger(ctx, r.logger, "Router", "Dispatch")

	if !r.gate.Allow(req) {
		logger.InfoContext(ctx, "access denied", "redirect", r.gate.LoginPath())
		return r.responder.redirect(ctx, w, r.gate.LoginPath())
	}

	if h, ok := r.Lookup(req.Method, req.Target); ok {
		logger.DebugContext(ctx, "route matched")
		return h(ctx, w, req)
	}

	if r.static == nil {
		return r.responder.ok(ctx, w, FallbackContentType, []byte(FallbackBody))
	}
	logger.DebugContext(ctx, "static fallback")
	return r.static.Serve(ctx, w, req)
}
