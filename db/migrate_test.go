package db

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToPgx5URL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/db":   "pgx5://u:p@localhost:5432/db",
		"postgresql://u:p@localhost:5432/db": "pgx5://u:p@localhost:5432/db",
		"pgx5://u:p@localhost:5432/db":       "pgx5://u:p@localhost:5432/db",
		"":                                   "",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, convertToPgx5URL(in), "input %q", in)
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "migrations/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))

	body, err := fs.ReadFile(migrationFiles, "migrations/000001_create_form_submissions.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "form_submissions")
	assert.Contains(t, string(body), "submission_date TIMESTAMPTZ NOT NULL DEFAULT now()")
}

func TestRollbackMigrations_RejectsNonPositiveSteps(t *testing.T) {
	assert.Error(t, RollbackMigrations("postgres://localhost/db", 0))
}

func TestOpenStore_Drivers(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{Server: config.ServerConfig{StoreDriver: config.StoreDriverMemory}}
		st, closeFn, err := OpenStore(ctx, cfg, StoreOptions{})
		require.NoError(t, err)
		defer closeFn()
		assert.NoError(t, st.Ping(ctx))
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.Config{Server: config.ServerConfig{
			StoreDriver: config.StoreDriverSQLite,
			SQLitePath:  filepath.Join(t.TempDir(), "data", "submissions.db"),
		}}
		st, closeFn, err := OpenStore(ctx, cfg, StoreOptions{})
		require.NoError(t, err)
		defer closeFn()
		assert.NoError(t, st.Ping(ctx))
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := &config.Config{Server: config.ServerConfig{StoreDriver: "mongo"}}
		_, _, err := OpenStore(ctx, cfg, StoreOptions{})
		assert.Error(t, err)
	})
}
