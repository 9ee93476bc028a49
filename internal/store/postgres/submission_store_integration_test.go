//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/NomadCrew/contact-intake/db"
	"github.com/NomadCrew/contact-intake/internal/listing"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestSubmissionStore_Integration(t *testing.T) {
	pool := setupTestDB(t)
	s := NewSubmissionStore(pool)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	for i := 0; i < 25; i++ {
		_, err := s.Create(ctx, types.SubmissionInput{
			Name:        fmt.Sprintf("Person %02d", i),
			Email:       fmt.Sprintf("person%02d@example.com", i),
			PhoneNumber: fmt.Sprintf("555-123-%04d", i),
		})
		require.NoError(t, err)
		// keep submission_date strictly increasing
		time.Sleep(2 * time.Millisecond)
	}
	ada, err := s.Create(ctx, types.SubmissionInput{Name: "Ada", Email: "ada@example.com", PhoneNumber: "555-999-0000"})
	require.NoError(t, err)
	assert.NotEmpty(t, ada.ID)
	assert.False(t, ada.SubmissionDate.IsZero())

	t.Run("newest first", func(t *testing.T) {
		q, err := listing.BuildQuery(listing.Params{})
		require.NoError(t, err)
		page, err := s.FindMany(ctx, q)
		require.NoError(t, err)
		require.Len(t, page, 10)
		assert.Equal(t, ada.ID, page[0].ID)
	})

	t.Run("third page by name", func(t *testing.T) {
		q, err := listing.BuildQuery(listing.Params{Page: "3", SortField: "name", SortDirection: "asc"})
		require.NoError(t, err)
		page, err := s.FindMany(ctx, q)
		require.NoError(t, err)
		assert.Len(t, page, 6)
	})

	t.Run("case-sensitive search", func(t *testing.T) {
		total, err := s.Count(ctx, listing.Filter{SearchTerm: "ada"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		total, err = s.Count(ctx, listing.Filter{SearchTerm: "ADA"})
		require.NoError(t, err)
		assert.Equal(t, 0, total)
	})

	t.Run("count all", func(t *testing.T) {
		total, err := s.Count(ctx, listing.Filter{})
		require.NoError(t, err)
		assert.Equal(t, 26, total)
	})
}
