package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/webapp-server/internal/testfixtures"
)

// syncBuffer is a log sink safe for concurrent handlers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testApp struct {
	server *Server
	store  *testfixtures.UserStore
	logs   *syncBuffer
}

func newTestApp(t *testing.T, maxConns int) *testApp {
	t.Helper()

	root := t.TempDir()
	writeFile(t, root, "index.html", "<h1>index</h1>")
	writeFile(t, root, "user/list.html", listTemplate)

	logs := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := testfixtures.NewUserStore()
	factory := testfixtures.NewServiceFactory()
	static := NewStaticResolver(root, logger)
	router := NewRouter(RouterConfig{
		Auth:   NewAuthHandler(factory.NewAuthService(testfixtures.AuthServiceDeps{Credentials: store, Logger: logger}), logger),
		Users:  NewUserHandler(factory.NewUserService(testfixtures.UserServiceDeps{Users: store, Logger: logger}), static, logger),
		Static: static,
		Gate:   DefaultAccessGate(),
		Logger: logger,
	})

	server := NewServer(ServerConfig{
		Router:         router,
		Logger:         logger,
		MaxConnections: maxConns,
		NewID:          testfixtures.NewIDGenerator("conn").NextFunc(),
	})
	return &testApp{server: server, store: store, logs: logs}
}

// roundTrip serves raw over a pipe and returns everything the server wrote
// before closing.
func (a *testApp) roundTrip(t *testing.T, raw string) string {
	t.Helper()

	client, conn := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.server.ServeConn(context.Background(), conn)
	}()

	go func() {
		_, _ = client.Write([]byte(raw))
	}()

	var out bytes.Buffer
	buf := make([]byte, 4096)
	for {
		n, err := client.Read(buf)
		out.Write(buf[:n])
		if err != nil {
			break
		}
	}
	client.Close()
	<-done
	return out.String()
}

func TestServer_ServeConn(t *testing.T) {
	t.Parallel()

	t.Run("register, login and list", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, 0)
		fixture := testfixtures.NewUserFixture(testfixtures.WithEmail("neo+1@example.com"))

		got := app.roundTrip(t, testfixtures.RawRequest("POST", "/user/create", "", fixture.CreateForm()))
		if got != "HTTP/1.1 303 See Other\r\nLocation: /index.html\r\n\r\n" {
			t.Fatalf("unexpected create response %q", got)
		}
		if app.store.Len() != 1 {
			t.Fatalf("expected one stored user, got %d", app.store.Len())
		}

		got = app.roundTrip(t, testfixtures.RawRequest("POST", "/user/login", "", fixture.LoginForm()))
		if !strings.Contains(got, "Set-cookie: logined=true; Path=/\r\n") {
			t.Fatalf("expected session cookie, got %q", got)
		}

		got = app.roundTrip(t, testfixtures.RawRequest("GET", "/user/list.html", "logined=true", ""))
		resp := parseResponse(t, got)
		if !strings.Contains(resp.Body, `<th scope="row">3</th> <td>`+fixture.ID+`</td>`) {
			t.Fatalf("stored user missing from list: %s", resp.Body)
		}
		if !strings.Contains(resp.Body, "<td>neo+1@example.com</td>") {
			t.Fatalf("expected decoded email in list: %s", resp.Body)
		}
	})

	t.Run("failed login", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, 0)

		got := app.roundTrip(t, testfixtures.RawRequest("POST", "/user/login", "", "userId=ghost&password=x"))
		want := "HTTP/1.1 303 See Other\r\nLocation: /user/login_failed.html\r\nSet-cookie: logined=false; Path=/\r\n\r\n"
		if got != want {
			t.Fatalf("unexpected response %q", got)
		}
	})

	t.Run("protected path without cookie", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, 0)

		got := app.roundTrip(t, testfixtures.RawRequest("GET", "/user/list.html", "", ""))
		if got != "HTTP/1.1 303 See Other\r\nLocation: /user/login.html\r\n\r\n" {
			t.Fatalf("unexpected response %q", got)
		}
	})

	t.Run("static fallback", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, 0)

		got := app.roundTrip(t, testfixtures.RawRequest("GET", "/does/not/exist", "", ""))
		want := "HTTP/1.1 200 OK\r\nContent-Type: text/plain;charset=utf-8\r\nContent-Length: 11\r\n\r\nHello World"
		if got != want {
			t.Fatalf("unexpected response %q", got)
		}
	})

	t.Run("malformed request line closes without response", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, 0)

		if got := app.roundTrip(t, "GARBAGE\r\n\r\n"); got != "" {
			t.Fatalf("expected no response, got %q", got)
		}
		if !strings.Contains(app.logs.String(), `"error_kind":"malformed_request"`) {
			t.Fatalf("expected malformed request to be logged: %s", app.logs.String())
		}
	})

	t.Run("missing create field closes without response", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, 0)

		if got := app.roundTrip(t, testfixtures.RawRequest("POST", "/user/create", "", "userId=neo&password=x")); got != "" {
			t.Fatalf("expected no response, got %q", got)
		}
		if app.store.Len() != 0 {
			t.Fatalf("expected nothing stored")
		}
		if !strings.Contains(app.logs.String(), `"error_kind":"missing_field"`) {
			t.Fatalf("expected missing field to be logged: %s", app.logs.String())
		}
	})

	t.Run("connection id is logged", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, 0)
		app.roundTrip(t, testfixtures.RawRequest("GET", "/index.html", "", ""))
		if !strings.Contains(app.logs.String(), `"conn_id":"conn-1"`) {
			t.Fatalf("expected conn_id in logs: %s", app.logs.String())
		}
	})
}

type closedWriteConn struct {
	net.Conn
}

func (c closedWriteConn) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestServer_WriteFailureIsLogged(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, 0)

	client, conn := net.Pipe()
	defer client.Close()
	go func() {
		_, _ = client.Write([]byte(testfixtures.RawRequest("GET", "/index.html", "", "")))
	}()

	app.server.ServeConn(context.Background(), closedWriteConn{Conn: conn})

	logs := app.logs.String()
	if !strings.Contains(logs, "connection abandoned") || !strings.Contains(logs, `"error_kind":"io"`) {
		t.Fatalf("expected io failure to be logged: %s", logs)
	}
}

type panickingConn struct {
	net.Conn
}

func (panickingConn) Read(p []byte) (int, error) {
	panic("read exploded")
}

func TestServer_PanicIsRecovered(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, 0)

	client, conn := net.Pipe()
	defer client.Close()

	app.server.ServeConn(context.Background(), panickingConn{Conn: conn})

	if !strings.Contains(app.logs.String(), "connection handler panicked") {
		t.Fatalf("expected panic to be logged: %s", app.logs.String())
	}
	if !strings.Contains(app.logs.String(), "connection closed") {
		t.Fatalf("expected connection to be closed: %s", app.logs.String())
	}
}

func TestServer_Serve(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, 2)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- app.server.Serve(ctx, ln) }()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := net.Dial("tcp", ln.Addr().String())
			if err != nil {
				t.Errorf("dial failed: %v", err)
				return
			}
			defer conn.Close()
			if _, err := conn.Write([]byte(testfixtures.RawRequest("GET", "/missing", "", ""))); err != nil {
				t.Errorf("write failed: %v", err)
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			data, err := io.ReadAll(conn)
			if err != nil {
				t.Errorf("read failed: %v", err)
				return
			}
			if !strings.HasSuffix(string(data), "\r\n\r\n"+FallbackBody) {
				t.Errorf("unexpected response %q", data)
			}
		}()
	}
	wg.Wait()

	cancel()
	select {
	case err := <-served:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve did not stop after cancellation")
	}

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	if err := app.server.Wait(waitCtx); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
}
