package http

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/webapp-server/internal/protocol"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(method, target, cookie string, body protocol.Form) *protocol.Request {
	if body == nil {
		body = protocol.Form{}
	}
	return &protocol.Request{
		Method:  method,
		Target:  target,
		Version: "HTTP/1.1",
		Header:  map[string]string{},
		Cookie:  cookie,
		Body:    body,
	}
}

// sink collects what a handler writes.
type sink struct {
	buf bytes.Buffer
	w   *protocol.ResponseWriter
}

func newSink() *sink {
	s := &sink{}
	s.w = protocol.NewResponseWriter(&s.buf)
	return s
}

type parsedResponse struct {
	StatusLine string
	Header     map[string]string
	Body       string
}

func parseResponse(t *testing.T, raw string) parsedResponse {
	t.Helper()

	head, body, ok := strings.Cut(raw, "\r\n\r\n")
	if !ok {
		t.Fatalf("response has no header terminator: %q", raw)
	}
	lines := strings.Split(head, "\r\n")
	resp := parsedResponse{StatusLine: lines[0], Header: map[string]string{}, Body: body}
	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			t.Fatalf("malformed header line %q", line)
		}
		resp.Header[name] = value
	}
	return resp
}
