package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/celerix-dev/phonebook/internal/config"
	"github.com/celerix-dev/phonebook/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("embedded", func(t *testing.T) {
		dir := t.TempDir()
		store, err := Open(ctx, config.DatabaseConfig{Driver: config.DriverEmbedded, DataDir: dir}, zap.NewNop())
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &DocStore{}, store)
		require.NoError(t, store.Ping(ctx))
	})

	t.Run("sqlite uri", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "phonebook.db")
		store, err := Open(ctx, config.DatabaseConfig{
			URI:          "sqlite://" + path,
			MaxOpenConns: 1,
			LogLevel:     "silent",
		}, zap.NewNop())
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &GormStore{}, store)
		require.NoError(t, store.Insert(ctx, &schema.Person{Name: "Ada Lovelace", Number: "39-44-5323523"}))
		people, err := store.Find(ctx)
		require.NoError(t, err)
		assert.Len(t, people, 1)
	})

	t.Run("unsupported uri", func(t *testing.T) {
		_, err := Open(ctx, config.DatabaseConfig{URI: "mongodb://localhost"}, zap.NewNop())
		assert.Error(t, err)
	})
}
