package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.Get(ctx, "products")
	require.ErrorIs(t, err, ErrKeyNotFound)

	payload := []byte(`[{"id":1}]`)
	require.NoError(t, store.Set(ctx, "products", payload))

	got, err := store.Get(ctx, "products")
	require.NoError(t, err)
	require.Equal(t, payload, got)

	require.NoError(t, store.Delete(ctx, "products"))
	_, err = store.Get(ctx, "products")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStoreOverwriteKeepsLastWrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "cart", []byte(`[]`)))
	require.NoError(t, store.Set(ctx, "cart", []byte(`[{"productId":2}]`)))

	got, err := store.Get(ctx, "cart")
	require.NoError(t, err)
	require.Equal(t, []byte(`[{"productId":2}]`), got)
}

func TestFileStoreDeleteIsIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "isLoggedIn"))
}

func TestFileStoreRejectsPathTraversalKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set(context.Background(), "../escape", []byte("x"))
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrKeyNotFound))
}

func TestFileStoreRequiresDirectory(t *testing.T) {
	_, err := NewFileStore("  ")
	require.Error(t, err)
}
