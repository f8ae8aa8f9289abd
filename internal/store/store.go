// Package store defines the persisted slot port and opens the configured backend.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Makepad-fr/shopcart/internal/config"
	"github.com/Makepad-fr/shopcart/internal/store/jsonstore"
	"github.com/Makepad-fr/shopcart/internal/store/memstore"
	"github.com/Makepad-fr/shopcart/internal/store/redisstore"
	"github.com/Makepad-fr/shopcart/internal/store/sqlitestore"
)

// Slot is a durable key/value location. An absent key is reported with
// ok == false, never as an error.
type Slot interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Watcher is implemented by slots that can report external changes to a key.
// Watch blocks until ctx is done.
type Watcher interface {
	Watch(ctx context.Context, key string, onChange func()) error
}

var (
	_ Slot    = (*jsonstore.Store)(nil)
	_ Watcher = (*jsonstore.Store)(nil)
	_ Slot    = (*memstore.Store)(nil)
	_ Slot    = (*sqlitestore.Store)(nil)
	_ Slot    = (*redisstore.Store)(nil)
)

// Open returns the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Slot, error) {
	switch cfg.Backend {
	case config.BackendJSON, "":
		return jsonstore.New(cfg.DataDir, jsonstore.WithLogger(logger))
	case config.BackendSQLite:
		return sqlitestore.Open(ctx, cfg.SQLite.Path, logger)
	case config.BackendRedis:
		return redisstore.Open(ctx, redisstore.Options{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}, logger)
	case config.BackendMemory:
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
}
