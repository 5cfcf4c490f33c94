package objstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catlasdb/catlas/errs"
)

// storeContract runs the behavior every Store backend must share.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := store.Get(ctx, "absent")
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("put get round trip", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a/1", []byte("one")))

		data, err := store.Get(ctx, "a/1")
		require.NoError(t, err)
		require.Equal(t, []byte("one"), data)
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a/1", []byte("two")))

		data, err := store.Get(ctx, "a/1")
		require.NoError(t, err)
		require.Equal(t, []byte("two"), data)
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := store.Exists(ctx, "a/1")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = store.Exists(ctx, "absent")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("list by prefix", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a/2", []byte("x")))
		require.NoError(t, store.Put(ctx, "b/1", []byte("y")))

		keys, err := store.List(ctx, "a/")
		require.NoError(t, err)
		require.Equal(t, []string{"a/1", "a/2"}, keys)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		require.Equal(t, []string{"a/1", "a/2", "b/1"}, all)

		none, err := store.List(ctx, "zzz")
		require.NoError(t, err)
		require.Empty(t, none)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "b/1"))

		_, err := store.Get(ctx, "b/1")
		require.ErrorIs(t, err, errs.ErrObjectNotFound)

		// Missing keys delete without error.
		require.NoError(t, store.Delete(ctx, "b/1"))
	})

	t.Run("empty object", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "empty", nil))

		data, err := store.Get(ctx, "empty")
		require.NoError(t, err)
		require.Empty(t, data)
	})
}

func TestMemory_Contract(t *testing.T) {
	storeContract(t, NewMemory())
}

func TestMemory_CopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	original := []byte("payload")
	require.NoError(t, store.Put(ctx, "k", original))
	original[0] = 'X'

	data, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)

	data[0] = 'Y'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), again)
}

func TestMemory_Len(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.Zero(t, store.Len())

	require.NoError(t, store.Put(ctx, "k", []byte("v")))
	require.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "k"))
	require.Zero(t, store.Len())
}

func TestMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("worker/%d", i)
			for j := range 50 {
				data := []byte{byte(j)}
				if err := store.Put(ctx, key, data); err != nil {
					t.Error(err)

					return
				}
				if _, err := store.Get(ctx, key); err != nil {
					t.Error(err)

					return
				}
				if _, err := store.List(ctx, "worker/"); err != nil {
					t.Error(err)

					return
				}
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 8, store.Len())
}
