package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/example/inline-waitlist/internal/config"
	"github.com/example/inline-waitlist/internal/migrate"
	"github.com/example/inline-waitlist/internal/store"
)

// openStore picks the storage backend explicitly: DATABASE_URL selects
// Postgres, otherwise the file-backed SQLite store is used. Migrations
// only apply to Postgres; the SQLite store bootstraps its own schema.
func openStore(ctx context.Context, cfg config.Config, migrateUp bool) (store.Store, error) {
	if cfg.DatabaseURL != "" {
		pg, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if migrateUp {
			if err := migrate.Up(ctx, pg.DB()); err != nil {
				pg.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		log.Printf("store: using postgres")
		return pg, nil
	}

	sq, err := store.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
	}
	log.Printf("store: using sqlite at %s", cfg.SQLitePath)
	return sq, nil
}
