package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	nethttp "net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/webapp-server/internal/protocol"
)

const (
	FallbackContentType = "text/plain;charset=utf-8"
	FallbackBody        = "Hello World"
)

var (
	// ErrNoFile is returned by Open when the target does not resolve to
	// anything on disk, whatever the lookup error.
	ErrNoFile = errors.New("static: no such file")
	// ErrNotRegularFile is returned by Open for directories and other non-files.
	ErrNotRegularFile = errors.New("static: not a regular file")
)

// StaticResolver serves files below a document root. Targets are joined to
// the root as-is; there is no traversal protection.
type StaticResolver struct {
	root      string
	responder responder
	logger    *slog.Logger
}

func NewStaticResolver(root string, logger *slog.Logger) *StaticResolver {
	base := defaultLogger(logger)
	return &StaticResolver{root: root, responder: newResponder(base), logger: base}
}

// Path maps a request target to a file path. The query string is dropped.
func (s *StaticResolver) Path(target string) string {
	path, _, _ := strings.Cut(target, "?")
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// Open reads the file for target and probes its content type.
func (s *StaticResolver) Open(target string) ([]byte, string, error) {
	path := s.Path(target)
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNoFile, err)
	}
	if !info.Mode().IsRegular() {
		return nil, "", fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, probeContentType(path, data), nil
}

// Serve answers req with the file it names, or with the fallback payload
// when the target does not resolve to a regular file. It never answers 404;
// only a failed read of an existing file is returned as an error.
func (s *StaticResolver) Serve(ctx context.Context, w *protocol.ResponseWriter, req *protocol.Request) error {
	logger := handlerLogger(ctx, s.logger, "StaticResolver", "Serve")

	data, contentType, err := s.Open(req.Target)
	if err != nil {
		if errors.Is(err, ErrNoFile) || errors.Is(err, ErrNotRegularFile) {
			logger.DebugContext(ctx, "static miss, serving fallback")
			return s.responder.ok(ctx, w, FallbackContentType, []byte(FallbackBody))
		}
		return fmt.Errorf("read static file: %w", err)
	}

	logger.DebugContext(ctx, "static hit", "content_type", contentType, "size", len(data))
	return s.responder.ok(ctx, w, contentType, data)
}

// probeContentType looks at the extension first and sniffs the content
// otherwise.
func probeContentType(path string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return nethttp.DetectContentType(data)
}
