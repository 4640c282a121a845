package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"route-weather/models"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "routeweather:location:"
	redisGeoKey    = "routeweather:locations:geo"
)

// RedisLocationStore shares resolutions between processes. Location keys are
// plain string keys with a TTL; coordinates live in a GEO set, which stores
// positions as geohashes (sub-meter precision).
type RedisLocationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// Ensure RedisLocationStore implements LocationStore
var _ LocationStore = (*RedisLocationStore)(nil)

// NewRedisLocationStore wraps an existing client. A ttl <= 0 keeps keys forever.
func NewRedisLocationStore(client *redis.Client, ttl time.Duration) *RedisLocationStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisLocationStore{client: client, ttl: ttl}
}

func (s *RedisLocationStore) Name() string { return "redis" }

// Ping checks connectivity
func (s *RedisLocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisLocationStore) LookupKey(ctx context.Context, name string) (string, bool, error) {
	key, err := s.client.Get(ctx, redisKeyPrefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read location key: %w", err)
	}
	return key, true, nil
}

func (s *RedisLocationStore) StoreKey(ctx context.Context, name, key string) error {
	if err := s.client.Set(ctx, redisKeyPrefix+name, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store location key: %w", err)
	}
	return nil
}

func (s *RedisLocationStore) LookupCoordinates(ctx context.Context, key string) (models.Coordinates, bool, error) {
	positions, err := s.client.GeoPos(ctx, redisGeoKey, key).Result()
	if err != nil {
		return models.Coordinates{}, false, fmt.Errorf("failed to read geoposition: %w", err)
	}
	if len(positions) == 0 || positions[0] == nil {
		return models.Coordinates{}, false, nil
	}
	return models.Coordinates{
		Latitude:  positions[0].Latitude,
		Longitude: positions[0].Longitude,
	}, true, nil
}

func (s *RedisLocationStore) StoreCoordinates(ctx context.Context, key string, coords models.Coordinates) error {
	_, err := s.client.GeoAdd(ctx, redisGeoKey, &redis.GeoLocation{
		Name:      key,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to add geoposition: %w", err)
	}
	return nil
}
