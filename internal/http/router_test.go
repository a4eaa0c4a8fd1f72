package http

import (
	"context"
	"testing"

	"github.com/example/webapp-server/internal/application"
	"github.com/example/webapp-server/internal/protocol"
)

func newTestRouter(t *testing.T, users *userServiceStub, auth *authenticatorStub) *Router {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "index.html", "<h1>index</h1>")
	writeFile(t, root, "user/list.html", listTemplate)

	static := NewStaticResolver(root, discardLogger())
	return NewRouter(RouterConfig{
		Auth:   NewAuthHandler(auth, discardLogger()),
		Users:  NewUserHandler(users, static, discardLogger()),
		Static: static,
		Gate:   DefaultAccessGate(),
		Logger: discardLogger(),
	})
}

func TestRouter_Lookup(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &userServiceStub{}, &authenticatorStub{})

	tests := []struct {
		method string
		target string
		want   bool
	}{
		{"POST", "/user/create", true},
		{"POST", "/user/login", true},
		{"GET", "/user/list.html", true},
		{"GET", "/user/create", false},
		{"POST", "/user/create/", false},
		{"post", "/user/create", false},
		{"GET", "/user/list.html?x=1", false},
	}
	for _, tc := range tests {
		if _, ok := router.Lookup(tc.method, tc.target); ok != tc.want {
			t.Fatalf("Lookup(%q, %q) = %v, want %v", tc.method, tc.target, ok, tc.want)
		}
	}
}

func TestRouter_Dispatch(t *testing.T) {
	t.Parallel()

	t.Run("protected path without cookie redirects to login", func(t *testing.T) {
		t.Parallel()
		users := &userServiceStub{users: []application.User{{ID: "neo"}}}
		router := newTestRouter(t, users, &authenticatorStub{})
		out := newSink()

		if err := router.Dispatch(context.Background(), out.w, newRequest("GET", "/user/list.html", "", nil)); err != nil {
			t.Fatalf("Dispatch returned error: %v", err)
		}
		want := "HTTP/1.1 303 See Other\r\nLocation: /user/login.html\r\n\r\n"
		if out.buf.String() != want {
			t.Fatalf("unexpected response %q", out.buf.String())
		}
	})

	t.Run("protected path with session renders list", func(t *testing.T) {
		t.Parallel()
		users := &userServiceStub{users: []application.User{{ID: "neo", Name: "Neo", Email: "neo@example.com"}}}
		router := newTestRouter(t, users, &authenticatorStub{})
		out := newSink()

		if err := router.Dispatch(context.Background(), out.w, newRequest("GET", "/user/list.html", "logined=true", nil)); err != nil {
			t.Fatalf("Dispatch returned error: %v", err)
		}
		resp := parseResponse(t, out.buf.String())
		if resp.StatusLine != "HTTP/1.1 200 OK" {
			t.Fatalf("unexpected status line %q", resp.StatusLine)
		}
		if want := RenderUserList(listTemplate, users.users); resp.Body != want {
			t.Fatalf("unexpected body %q", resp.Body)
		}
	})

	t.Run("unknown path falls back to hello world", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t, &userServiceStub{}, &authenticatorStub{})
		out := newSink()

		if err := router.Dispatch(context.Background(), out.w, newRequest("GET", "/does/not/exist", "", nil)); err != nil {
			t.Fatalf("Dispatch returned error: %v", err)
		}
		want := "HTTP/1.1 200 OK\r\nContent-Type: text/plain;charset=utf-8\r\nContent-Length: 11\r\n\r\nHello World"
		if out.buf.String() != want {
			t.Fatalf("unexpected response %q", out.buf.String())
		}
	})

	t.Run("unmatched method goes to static resolver", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t, &userServiceStub{}, &authenticatorStub{})
		out := newSink()

		if err := router.Dispatch(context.Background(), out.w, newRequest("GET", "/index.html", "", nil)); err != nil {
			t.Fatalf("Dispatch returned error: %v", err)
		}
		if resp := parseResponse(t, out.buf.String()); resp.Body != "<h1>index</h1>" {
			t.Fatalf("unexpected body %q", resp.Body)
		}
	})

	t.Run("route receives the parsed body", func(t *testing.T) {
		t.Parallel()
		auth := &authenticatorStub{user: application.User{ID: "neo"}}
		router := newTestRouter(t, &userServiceStub{}, auth)

		body := protocol.ParseForm("userId=neo&password=secret")
		if err := router.Dispatch(context.Background(), newSink().w, newRequest("POST", "/user/login", "", body)); err != nil {
			t.Fatalf("Dispatch returned error: %v", err)
		}
		if auth.received.UserID != "neo" || auth.received.Password != "secret" {
			t.Fatalf("unexpected params %+v", auth.received)
		}
	})

	t.Run("router without static resolver still answers", func(t *testing.T) {
		t.Parallel()
		router := NewRouter(RouterConfig{Logger: discardLogger()})
		out := newSink()
		if err := router.Dispatch(context.Background(), out.w, newRequest("GET", "/anything", "", nil)); err != nil {
			t.Fatalf("Dispatch returned error: %v", err)
		}
		if resp := parseResponse(t, out.buf.String()); resp.Body != FallbackBody {
			t.Fatalf("unexpected body %q", resp.Body)
		}
	})
}
