package http

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/webapp-server/internal/application"
	"github.com/example/webapp-server/internal/protocol"
)

const (
	// UserListPlaceholder is replaced by the generated rows in list.html.
	UserListPlaceholder = "${userList}"

	// listRowOffset is the index of the first generated row. list.html carries
	// two hand-authored rows above the placeholder; changing the template's
	// row count requires changing this value.
	listRowOffset = 3
)

type userService interface {
	RegisterUser(ctx context.Context, params application.RegisterUserParams) (application.User, error)
	ListUsers(ctx context.Context) ([]application.User, error)
}

type UserHandler struct {
	service   userService
	templates *StaticResolver
	responder responder
	logger    *slog.Logger
}

// NewUserHandler reads the list template through templates.
func NewUserHandler(service userService, templates *StaticResolver, logger *slog.Logger) *UserHandler {
	base := defaultLogger(logger)
	return &UserHandler{service: service, templates: templates, responder: newResponder(base), logger: base}
}

func (h *UserHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UserHandler", operation, attrs...)
}

// Create registers the user described by the form body and redirects to the
// index page. An absent field aborts without a response.
func (h *UserHandler) Create(ctx context.Context, w *protocol.ResponseWriter, req *protocol.Request) error {
	if h == nil || h.service == nil {
		return fmt.Errorf("user handler is not configured")
	}

	params, err := registerParamsFromForm(req.Body)
	if err != nil {
		h.log(ctx, "Create").ErrorContext(ctx, "invalid user form", "error", err, "error_kind", errorKind(err))
		return err
	}

	logger := h.log(ctx, "Create", "user_id", params.UserID)
	user, err := h.service.RegisterUser(ctx, params)
	if err != nil {
		logger.ErrorContext(ctx, "user creation failed", "error", err, "error_kind", errorKind(err))
		return err
	}

	logger.With("user_id", user.ID).InfoContext(ctx, "user created")
	return h.responder.redirect(ctx, w, IndexPath)
}

// List renders every stored user into the list template.
func (h *UserHandler) List(ctx context.Context, w *protocol.ResponseWriter, req *protocol.Request) error {
	if h == nil || h.service == nil || h.templates == nil {
		return fmt.Errorf("user handler is not configured")
	}

	logger := h.log(ctx, "List")
	users, err := h.service.ListUsers(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "user list failed", "error", err, "error_kind", errorKind(err))
		return err
	}

	template, contentType, err := h.templates.Open(req.Target)
	if err != nil {
		logger.ErrorContext(ctx, "user list template unavailable", "error", err)
		return fmt.Errorf("open user list template: %w", err)
	}

	body := RenderUserList(string(template), users)
	logger.With("result_count", len(users)).InfoContext(ctx, "users listed")
	return h.responder.ok(ctx, w, contentType, []byte(body))
}

func registerParamsFromForm(form protocol.Form) (application.RegisterUserParams, error) {
	var values [4]string
	for i, field := range []string{"userId", "password", "name", "email"} {
		v, ok := form.Lookup(field)
		if !ok {
			return application.RegisterUserParams{}, &application.MissingFieldError{Field: field}
		}
		values[i] = v
	}

	email, err := url.QueryUnescape(values[3])
	if err != nil {
		return application.RegisterUserParams{}, fmt.Errorf("decode email: %w", err)
	}

	return application.RegisterUserParams{
		UserID:   values[0],
		Password: values[1],
		Name:     values[2],
		Email:    email,
	}, nil
}

// RenderUserList replaces every UserListPlaceholder in template with one row
// per user, numbered from listRowOffset. Field values are HTML-escaped on
// purpose, so a value containing &<>"' renders differently from inserting it
// raw; keep the escaping.
func RenderUserList(template string, users []application.User) string {
	var rows strings.Builder
	for i, user := range users {
		rows.WriteString(`<tr> <th scope="row">`)
		rows.WriteString(strconv.Itoa(listRowOffset + i))
		rows.WriteString(`</th> <td>`)
		rows.WriteString(html.EscapeString(user.ID))
		rows.WriteString(`</td> <td>`)
		rows.WriteString(html.EscapeString(user.Name))
		rows.WriteString(`</td> <td>`)
		rows.WriteString(html.EscapeString(user.Email))
		rows.WriteString(`</td><td><a href="#" class="btn btn-success" role="button">수정</a></td> </tr>`)
	}
	return strings.ReplaceAll(template, UserListPlaceholder, rows.String())
}
