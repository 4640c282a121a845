package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"route-weather/models"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocationStore(t *testing.T) {
	store := NewMemoryLocationStore(time.Hour)
	ctx := context.Background()

	_, found, err := store.LookupKey(ctx, "Paris")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.StoreKey(ctx, "Paris", "623"))
	key, found, err := store.LookupKey(ctx, "Paris")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "623", key)

	coords := models.Coordinates{Latitude: 48.857, Longitude: 2.353}
	require.NoError(t, store.StoreCoordinates(ctx, "623", coords))
	got, found, err := store.LookupCoordinates(ctx, "623")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, coords, got)

	// names and keys live in separate namespaces
	_, found, _ = store.LookupCoordinates(ctx, "Paris")
	assert.False(t, found)
	assert.Equal(t, 2, store.ItemCount())
}

func TestMemoryLocationStore_Expiry(t *testing.T) {
	store := NewMemoryLocationStore(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.StoreKey(ctx, "Paris", "623"))
	time.Sleep(30 * time.Millisecond)

	_, found, err := store.LookupKey(ctx, "Paris")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisLocationStore_Keys(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisLocationStore(client, time.Hour)
	ctx := context.Background()

	mock.ExpectGet(redisKeyPrefix + "Paris").RedisNil()
	mock.ExpectSet(redisKeyPrefix+"Paris", "623", time.Hour).SetVal("OK")
	mock.ExpectGet(redisKeyPrefix + "Paris").SetVal("623")

	_, found, err := store.LookupKey(ctx, "Paris")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.StoreKey(ctx, "Paris", "623"))

	key, found, err := store.LookupKey(ctx, "Paris")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "623", key)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLocationStore_Coordinates(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisLocationStore(client, 0)
	ctx := context.Background()

	mock.ExpectGeoAdd(redisGeoKey, &redis.GeoLocation{
		Name:      "623",
		Latitude:  48.857,
		Longitude: 2.353,
	}).SetVal(1)
	mock.ExpectGeoPos(redisGeoKey, "623").SetVal([]*redis.GeoPos{
		{Latitude: 48.857, Longitude: 2.353},
	})
	mock.ExpectGeoPos(redisGeoKey, "178087").SetVal([]*redis.GeoPos{nil})

	require.NoError(t, store.StoreCoordinates(ctx, "623", models.Coordinates{Latitude: 48.857, Longitude: 2.353}))

	coords, found, err := store.LookupCoordinates(ctx, "623")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 48.857, coords.Latitude)
	assert.Equal(t, 2.353, coords.Longitude)

	_, found, err = store.LookupCoordinates(ctx, "178087")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLocationStore_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisLocationStore(client, time.Hour)
	ctx := context.Background()

	mock.ExpectGet(redisKeyPrefix + "Paris").SetErr(errors.New("connection refused"))
	mock.ExpectPing().SetErr(errors.New("connection refused"))

	_, found, err := store.LookupKey(ctx, "Paris")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, store.Ping(ctx))
}
