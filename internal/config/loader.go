package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/webapp-server/internal/logging"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config captures environment driven configuration values for the web server.
type Config struct {
	HTTPPort        int
	DocumentRoot    string
	Store           string
	SQLiteDSN       string
	LogLevel        slog.Level
	MaxConnections  int
	ShutdownTimeout time.Duration
}

// Load reads the optional env files (".env" when none are given), then parses
// configuration from the process environment. Variables already set in the
// environment win over file values. Every missing or invalid entry is
// reported in one error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read env file %s: %w", file, err)
		}
	}

	cfg := Config{
		HTTPPort:        8080,
		DocumentRoot:    "./webapp",
		Store:           StoreMemory,
		SQLiteDSN:       "file:webserver.db",
		LogLevel:        slog.LevelInfo,
		MaxConnections:  0,
		ShutdownTimeout: 10 * time.Second,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := lookup("WEBSERVER_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "WEBSERVER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if root := lookup("WEBSERVER_DOCUMENT_ROOT"); root != "" {
		cfg.DocumentRoot = root
	}

	if store := strings.ToLower(lookup("WEBSERVER_STORE")); store != "" {
		switch store {
		case StoreMemory, StoreSQLite:
			cfg.Store = store
		default:
			invalid = append(invalid, "WEBSERVER_STORE")
		}
	}

	if _, set := os.LookupEnv("WEBSERVER_SQLITE_DSN"); set {
		cfg.SQLiteDSN = lookup("WEBSERVER_SQLITE_DSN")
	}
	if cfg.Store == StoreSQLite && cfg.SQLiteDSN == "" {
		missing = append(missing, "WEBSERVER_SQLITE_DSN")
	}

	if levelValue := lookup("WEBSERVER_LOG_LEVEL"); levelValue != "" {
		level, err := logging.ParseLevel(levelValue)
		if err != nil {
			invalid = append(invalid, "WEBSERVER_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if maxValue := lookup("WEBSERVER_MAX_CONNECTIONS"); maxValue != "" {
		limit, err := strconv.Atoi(maxValue)
		if err != nil || limit < 0 {
			invalid = append(invalid, "WEBSERVER_MAX_CONNECTIONS")
		} else {
			cfg.MaxConnections = limit
		}
	}

	if timeoutValue := lookup("WEBSERVER_SHUTDOWN_TIMEOUT"); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "WEBSERVER_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
