package cache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/cache"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/config"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (cache.Cache, redismock.ClientMock, *config.CacheConfig) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	cfg := &config.CacheConfig{
		Driver:     cache.DriverRedis,
		DefaultTTL: 12 * time.Hour,
	}

	return cache.NewRedisCache(client, cfg), mock, cfg
}

func sessionUser() models.User {
	return models.User{ID: 7, Username: "nimal", FullName: "Nimal Perera", Email: "nimal@lankabuy.lk", Role: models.RoleAdmin}
}

func TestRedisCacheGet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.SessionKeyPrefix, cache.CurrentUserKey)
	storedKey := "lankabuy:session:currentUser"

	user := sessionUser()
	jsonData, err := json.Marshal(user)
	require.NoError(t, err)

	t.Run("Success - Key Found", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupRedis(t)
		mock.ExpectGet(storedKey).SetVal(string(jsonData))

		var result models.User

		// Act
		found, err := redisCache.Get(ctx, key, &result)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, user, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Key Not Found", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupRedis(t)
		mock.ExpectGet(storedKey).SetErr(redis.Nil)

		var result models.User

		// Act
		found, err := redisCache.Get(ctx, key, &result)

		// Assert
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, result.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupRedis(t)
		expectedErr := errors.New("redis connection error")
		mock.ExpectGet(storedKey).SetErr(expectedErr)

		var result models.User

		// Act
		found, err := redisCache.Get(ctx, key, &result)

		// Assert
		require.Error(t, err)
		assert.False(t, found)
		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), "failed to get key session:currentUser from redis")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Unmarshal Error", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupRedis(t)
		mock.ExpectGet(storedKey).SetVal(`{"id": "not-a-number"}`)

		var result models.User

		// Act
		found, err := redisCache.Get(ctx, key, &result)

		// Assert
		require.Error(t, err)
		assert.False(t, found)

		var jsonErr *json.UnmarshalTypeError

		assert.ErrorAs(t, err, &jsonErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheSet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.SessionKeyPrefix, cache.CurrentUserKey)
	storedKey := "lankabuy:session:currentUser"

	user := sessionUser()
	jsonData, err := json.Marshal(user)
	require.NoError(t, err)

	t.Run("Success - With Specific TTL", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupRedis(t)
		mock.ExpectSet(storedKey, jsonData, time.Hour).SetVal("OK")

		// Act
		err := redisCache.Set(ctx, key, user, time.Hour)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - With Default TTL", func(t *testing.T) {
		// Arrange
		redisCache, mock, cfg := setupRedis(t)
		mock.ExpectSet(storedKey, jsonData, cfg.DefaultTTL).SetVal("OK")

		// Act
		err := redisCache.Set(ctx, key, user, 0)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Marshal Error", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupRedis(t)

		// Act
		err := redisCache.Set(ctx, key, make(chan int), time.Hour)

		// Assert
		require.Error(t, err)

		var jsonErr *json.UnsupportedTypeError

		assert.ErrorAs(t, err, &jsonErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupRedis(t)
		expectedErr := errors.New("redis SET failed")
		mock.ExpectSet(storedKey, jsonData, time.Hour).SetErr(expectedErr)

		// Act
		err := redisCache.Set(ctx, key, user, time.Hour)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheDelete(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.SessionKeyPrefix, cache.CurrentUserKey)

	t.Run("Success", func(t *testing.T) {
		redisCache, mock, _ := setupRedis(t)
		mock.ExpectDel("lankabuy:session:currentUser").SetVal(1)

		err := redisCache.Delete(ctx, key)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		redisCache, mock, _ := setupRedis(t)
		expectedErr := errors.New("redis DEL failed")
		mock.ExpectDel("lankabuy:session:currentUser").SetErr(expectedErr)

		err := redisCache.Delete(ctx, key)

		require.Error(t, err)
		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), "failed to delete key session:currentUser from redis")
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "session:currentUser", cache.Key(cache.SessionKeyPrefix, cache.CurrentUserKey))
	assert.Equal(t, "prefix:", cache.Key("prefix", ""))
	assert.Equal(t, ":id", cache.Key("", "id"))
}
