package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/webapp-server/internal/application"
	"github.com/example/webapp-server/internal/config"
	httptransport "github.com/example/webapp-server/internal/http"
	"github.com/example/webapp-server/internal/logging"
	"github.com/example/webapp-server/internal/persistence"
	"github.com/example/webapp-server/internal/persistence/memory"
	"github.com/example/webapp-server/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, slog.LevelInfo).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, then waits up to cfg.ShutdownTimeout for
// in-flight connections.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	return serve(ctx, cfg, ln, logger)
}

func serve(ctx context.Context, cfg config.Config, ln net.Listener, logger *slog.Logger) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		ln.Close()
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	server := buildServer(cfg, store, logger)

	logger.Info("web server starting", "addr", ln.Addr().String(), "store", cfg.Store, "document_root", cfg.DocumentRoot)
	serveErr := server.Serve(ctx, ln)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Wait(shutdownCtx); err != nil {
		logger.Warn("in-flight connections did not finish before shutdown", "error", err)
	}
	logger.Info("web server stopped")
	return serveErr
}

type userStore interface {
	persistence.UserRepository
	io.Closer
}

func openStore(ctx context.Context, cfg config.Config) (userStore, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		storage, err := sqlite.Open(ctx, cfg.SQLiteDSN)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		if err := storage.Migrate(ctx); err != nil {
			_ = storage.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		return storage, nil
	case config.StoreMemory, "":
		return memory.Open(), nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func buildServer(cfg config.Config, store persistence.UserRepository, logger *slog.Logger) *httptransport.Server {
	hasher := application.NewPasswordHasher(application.DefaultArgon2idParams)

	userService := application.NewUserServiceWithLogger(newUserRepositoryAdapter(store), hasher.Hash, time.Now, logger)
	authService := application.NewAuthServiceWithLogger(newCredentialStoreAdapter(store), hasher.Verify, logger)

	static := httptransport.NewStaticResolver(cfg.DocumentRoot, logger)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:   httptransport.NewAuthHandler(authService, logger),
		Users:  httptransport.NewUserHandler(userService, static, logger),
		Static: static,
		Gate:   httptransport.DefaultAccessGate(),
		Logger: logger,
	})

	return httptransport.NewServer(httptransport.ServerConfig{
		Router:         router,
		Logger:         logger,
		MaxConnections: cfg.MaxConnections,
	})
}

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) AddUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	if err := a.repo.AddUser(ctx, toPersistenceUser(user, passwordHash)); err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return user, nil
}

func (a *userRepositoryAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.FindAll(ctx)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

type credentialStoreAdapter struct {
	repo persistence.UserRepository
}

func newCredentialStoreAdapter(repo persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentials(ctx context.Context, userID string) (application.UserCredentials, error) {
	stored, err := a.repo.FindUserByID(ctx, userID)
	if err != nil {
		return application.UserCredentials{}, mapPersistenceError(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func mapPersistenceError(err error) error {
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return fmt.Errorf("%w: %v", application.ErrNotFound, err)
	case errors.Is(err, persistence.ErrDuplicate):
		return fmt.Errorf("%w: %v", application.ErrAlreadyExists, err)
	}
	return err
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		CreatedAt: model.CreatedAt,
	}
}

func toPersistenceUser(user application.User, passwordHash string) persistence.User {
	return persistence.User{
		ID:           user.ID,
		PasswordHash: passwordHash,
		Name:         user.Name,
		Email:        user.Email,
		CreatedAt:    user.CreatedAt,
	}
}
