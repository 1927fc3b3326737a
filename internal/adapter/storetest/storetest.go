// Package storetest holds the behaviour every ports.ImageStore must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises store through the ImageStore contract. store must start empty.
func Run(t *testing.T, store ports.ImageStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "img_cache_missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		value := []byte(`{"url":"https://x/a.jpg","base64":"data:image/jpeg;base64,AA==","expires":1}`)
		require.NoError(t, store.Set(ctx, "img_cache_61", value, time.Hour))

		got, err := store.Get(ctx, "img_cache_61")
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "img_cache_62", []byte("first"), time.Hour))
		require.NoError(t, store.Set(ctx, "img_cache_62", []byte("second"), time.Hour))

		got, err := store.Get(ctx, "img_cache_62")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("binary value", func(t *testing.T) {
		value := []byte{0x00, 0xff, 0x89, 'P', 'N', 'G', 0x00}
		require.NoError(t, store.Set(ctx, "img_cache_bin", value, 0))

		got, err := store.Get(ctx, "img_cache_bin")
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "img_cache_63", []byte("x"), time.Hour))
		require.NoError(t, store.Delete(ctx, "img_cache_63"))

		_, err := store.Get(ctx, "img_cache_63")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		require.NoError(t, store.Delete(ctx, "img_cache_63"))
	})

	t.Run("keys by literal prefix", func(t *testing.T) {
		for _, key := range []string{"img_cache_-1a", "img_cache_2b", "imgXcacheX3c", "session"} {
			require.NoError(t, store.Set(ctx, key, []byte("x"), time.Hour))
		}

		keys, err := store.Keys(ctx, "img_cache_")
		require.NoError(t, err)
		assert.Contains(t, keys, "img_cache_-1a")
		assert.Contains(t, keys, "img_cache_2b")
		assert.NotContains(t, keys, "imgXcacheX3c")
		assert.NotContains(t, keys, "session")

		keys, err = store.Keys(ctx, "no_such_prefix_")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}
