package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/claude/pinlog/internal/config"
)

// ErrUnknownDriver is returned by Open for an unsupported storage driver.
var ErrUnknownDriver = errors.New("unknown storage driver")

// KV is a flat key/value store holding opaque blobs, the same shape as a
// browser's localStorage.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the KV backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (KV, error) {
	switch cfg.Driver {
	case "sqlite":
		log.Info("opening sqlite store", "path", cfg.Path)
		return OpenSQLite(cfg.Path)
	case "postgres":
		dsn := cfg.Postgres.DSN()
		if err := RunMigrations(dsn, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		log.Info("migrations applied", "path", cfg.MigrationsPath)
		return NewPostgres(ctx, dsn)
	case "memory":
		log.Warn("using in-memory store, workouts will not survive a restart")
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}
