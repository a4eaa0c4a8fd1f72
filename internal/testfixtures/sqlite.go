package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/webapp-server/internal/persistence"
	"github.com/example/webapp-server/internal/persistence/memory"
	"github.com/example/webapp-server/internal/persistence/sqlite"
)

// StoreHarness exposes a persistence.UserRepository backed by one of the
// concrete stores.
type StoreHarness struct {
	Name  string
	Users persistence.UserRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *StoreHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens a migrated SQLite store in a temporary file. The
// store is closed when the test ends.
func NewSQLiteHarness(tb testing.TB) *StoreHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "webserver.db")
	storage, err := sqlite.Open(context.Background(), path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &StoreHarness{
		Name:    "sqlite",
		Users:   storage,
		cleanup: func() { _ = storage.Close() },
	}
	tb.Cleanup(harness.Close)
	return harness
}

// NewMemoryHarness returns a harness over the in-memory store.
func NewMemoryHarness(tb testing.TB) *StoreHarness {
	tb.Helper()

	storage := memory.Open()
	harness := &StoreHarness{
		Name:    "memory",
		Users:   storage,
		cleanup: func() { _ = storage.Close() },
	}
	tb.Cleanup(harness.Close)
	return harness
}

// AllStores returns one harness per store implementation.
func AllStores(tb testing.TB) []*StoreHarness {
	tb.Helper()
	return []*StoreHarness{NewMemoryHarness(tb), NewSQLiteHarness(tb)}
}
