package db

import (
	"context"
	"fmt"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/internal/store"
	"github.com/NomadCrew/contact-intake/internal/store/memory"
	"github.com/NomadCrew/contact-intake/internal/store/postgres"
	"github.com/NomadCrew/contact-intake/internal/store/sqlite"
	"github.com/NomadCrew/contact-intake/logger"
)

// StoreOptions controls OpenStore.
type StoreOptions struct {
	// Migrate applies pending postgres migrations before the store is returned.
	Migrate bool
}

// OpenStore builds the submission store selected by cfg.Server.StoreDriver.
// The returned close function releases the underlying connections.
func OpenStore(ctx context.Context, cfg *config.Config, opts StoreOptions) (store.SubmissionStore, func(), error) {
	log := logger.GetLogger()

	switch cfg.Server.StoreDriver {
	case config.StoreDriverPostgres, "":
		if opts.Migrate {
			if err := RunMigrations(cfg.Database.URL()); err != nil {
				return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		pool, err := NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSubmissionStore(pool), pool.Close, nil

	case config.StoreDriverSQLite:
		st, err := sqlite.Open(ctx, cfg.Server.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("SQLite store ready", "path", cfg.Server.SQLitePath)
		return st, func() {
			if err := st.Close(); err != nil {
				log.Warnw("Failed to close SQLite store", "error", err)
			}
		}, nil

	case config.StoreDriverMemory:
		log.Warn("Using in-memory store; submissions are lost on restart")
		return memory.NewSubmissionStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Server.StoreDriver)
	}
}
