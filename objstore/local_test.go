package objstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()

	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	return store
}

func TestLocal_Contract(t *testing.T) {
	storeContract(t, newTestLocal(t))
}

func TestLocal_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "store")

	store, err := NewLocal(root)
	require.NoError(t, err)
	require.Equal(t, root, store.Root())

	info, err := os.Stat(root)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestLocal_KeysBecomeFiles(t *testing.T) {
	ctx := context.Background()
	store := newTestLocal(t)

	require.NoError(t, store.Put(ctx, "snap/manifests/abc", []byte("data")))

	raw, err := os.ReadFile(filepath.Join(store.Root(), "snap", "manifests", "abc"))
	require.NoError(t, err)
	require.Equal(t, []byte("data"), raw)
}

func TestLocal_RejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	store := newTestLocal(t)

	for _, key := range []string{"", "/abs", "../escape", "a/../../b", "a//b", "a/./b", "a/"} {
		t.Run("key "+key, func(t *testing.T) {
			require.Error(t, store.Put(ctx, key, []byte("x")))

			_, err := store.Get(ctx, key)
			require.Error(t, err)
		})
	}
}

func TestLocal_ListHidesInternals(t *testing.T) {
	ctx := context.Background()
	store := newTestLocal(t)

	require.NoError(t, store.Put(ctx, "visible", []byte("x")))

	// The lock file exists in the root after a write.
	keys, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"visible"}, keys)
}

func TestLocal_ExistsIgnoresDirectories(t *testing.T) {
	ctx := context.Background()
	store := newTestLocal(t)

	require.NoError(t, store.Put(ctx, "dir/obj", []byte("x")))

	ok, err := store.Exists(ctx, "dir")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = store.Exists(ctx, "dir/obj")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLocal_SharedRootAcrossInstances(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	a, err := NewLocal(root)
	require.NoError(t, err)
	b, err := NewLocal(root)
	require.NoError(t, err)

	require.NoError(t, a.Put(ctx, "k", []byte("from a")))

	data, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("from a"), data)

	require.NoError(t, b.Put(ctx, "k", []byte("from b")))

	data, err = a.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("from b"), data)
}
