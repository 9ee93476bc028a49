// Package db owns the PostgreSQL connection pool and schema migrations.
package db

import (
	"context"
	"fmt"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool opens a pgx pool for cfg and verifies it with a ping.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := config.ConfigurePostgresPool(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.GetLogger().Infow("Database pool ready", "host", cfg.Host, "database", cfg.Name)
	return pool, nil
}
