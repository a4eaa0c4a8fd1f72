package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/webapp-server/internal/application"
	"github.com/example/webapp-server/internal/protocol"
)

type authenticator interface {
	Authenticate(ctx context.Context, params application.AuthenticateParams) (application.User, error)
}

type AuthHandler struct {
	auth      authenticator
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(auth authenticator, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{auth: auth, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

// Login checks userId/password from the form body. Both outcomes are
// redirects carrying the session cookie; an absent field is a failed login.
func (h *AuthHandler) Login(ctx context.Context, w *protocol.ResponseWriter, req *protocol.Request) error {
	if h == nil || h.auth == nil {
		return fmt.Errorf("auth handler is not configured")
	}

	userID, _ := req.Body.Lookup("userId")
	password, _ := req.Body.Lookup("password")
	logger := h.log(ctx, "Login", "user_id", userID)

	user, err := h.auth.Authenticate(ctx, application.AuthenticateParams{UserID: userID, Password: password})
	if err != nil {
		if !errors.Is(err, application.ErrInvalidCredentials) {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", errorKind(err))
			return err
		}
		logger.InfoContext(ctx, "login rejected")
		return h.responder.redirectWithCookie(ctx, w, LoginFailedPath, FailedSessionCookie)
	}

	logger.With("user_id", user.ID).InfoContext(ctx, "login succeeded")
	return h.responder.redirectWithCookie(ctx, w, IndexPath, SessionCookie)
}
