package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobboard-api/internal/testutil"
)

func TestRedisCacheRepo_SetGetDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(client, "test:cache:")
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "k1", []byte("v1"), 5*time.Minute))

		got, err := repo.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)

		ttl := client.TTL(ctx, "test:cache:k1").Val()
		assert.True(t, ttl > 0 && ttl <= 5*time.Minute)
	})

	t.Run("missing key", func(t *testing.T) {
		got, err := repo.Get(ctx, "absent")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "k2", []byte("v2"), time.Minute))

		deleted, err := repo.Delete(ctx, "k2")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, "k2")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("set if not exists", func(t *testing.T) {
		ok, err := repo.SetIfNotExists(ctx, "lock", []byte("a"), time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.SetIfNotExists(ctx, "lock", []byte("b"), time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := repo.Get(ctx, "lock")
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), got)
	})

	t.Run("health", func(t *testing.T) {
		assert.NoError(t, repo.Health(ctx))
	})
}

func TestRedisCacheRepo_EmptyKey(t *testing.T) {
	repo := NewRedisCacheRepo(nil, "p:")
	ctx := context.Background()

	err := repo.Set(ctx, "", []byte("v"), time.Minute)
	require.ErrorIs(t, err, errEmptyCacheKey)

	_, err = repo.Get(ctx, "")
	require.ErrorIs(t, err, errEmptyCacheKey)

	_, err = repo.Delete(ctx, "")
	require.ErrorIs(t, err, errEmptyCacheKey)

	_, err = repo.SetIfNotExists(ctx, "", []byte("v"), time.Minute)
	require.ErrorIs(t, err, errEmptyCacheKey)
}
