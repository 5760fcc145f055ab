package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/KpG782/qr-registration/internal/config"
	"github.com/KpG782/qr-registration/internal/storage/postgres"
	"github.com/KpG782/qr-registration/internal/storage/sqlite"
)

// Open connects the backend named in cfg. Callers own the returned store and must Close it.
func Open(ctx context.Context, cfg config.Storage, logger *log.Logger) (Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		logger.Printf("storage backend=sqlite path=%s", cfg.SQLitePath)
		return store, nil
	case config.BackendPostgres:
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Printf("storage backend=postgres")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
