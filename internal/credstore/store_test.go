package credstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "alto.db")
	store, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.ApplyMigrations())
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	// Empty store yields no credential and no error.
	value, err := store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, value)

	require.NoError(t, store.Save(ctx, "refresh-1"))
	value, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "refresh-1", value)

	// Rotation replaces, never accumulates.
	require.NoError(t, store.Save(ctx, "refresh-2"))
	value, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "refresh-2", value)
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "refresh-1"))
	require.NoError(t, store.Delete(ctx))

	value, err := store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, value)

	// Deleting an absent credential is a no-op.
	require.NoError(t, store.Delete(ctx))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.ApplyMigrations())
}
