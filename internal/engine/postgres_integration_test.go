//go:build integration

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/celerix-dev/phonebook/internal/config"
	"github.com/celerix-dev/phonebook/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// TestPostgresStore runs the SQL store against a real Postgres in a container.
// Run with: go test -tags integration ./internal/engine/...
func TestPostgresStore(t *testing.T) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("phonebook_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("phonebook"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := Open(ctx, config.DatabaseConfig{
		URI:             dsn,
		MaxOpenConns:    4,
		MaxIdleConns:    1,
		ConnMaxLifetime: 5,
		LogLevel:        "warn",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	p := &schema.Person{Name: "Ada Lovelace", Number: "39-44-5323523"}
	require.NoError(t, store.Insert(ctx, p))

	err = store.Insert(ctx, &schema.Person{Name: "Ada Lovelace", Number: "39-44-0000000"})
	assert.ErrorIs(t, err, ErrDuplicateName)

	updated, err := store.Update(ctx, p.ID, "Ada L.", "39-44-0000000")
	require.NoError(t, err)
	assert.Equal(t, "39-44-0000000", updated.Number)

	require.NoError(t, store.Delete(ctx, p.ID))
	require.NoError(t, store.Delete(ctx, p.ID))

	_, err = store.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
