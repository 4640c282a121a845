package cache

import (
	"context"
	"time"

	"route-weather/models"

	gocache "github.com/patrickmn/go-cache"
)

// LocationStore remembers resolution results across route builds. A miss is
// reported with found=false and a nil error; errors mean the store itself failed.
type LocationStore interface {
	LookupKey(ctx context.Context, name string) (key string, found bool, err error)
	StoreKey(ctx context.Context, name, key string) error
	LookupCoordinates(ctx context.Context, key string) (coords models.Coordinates, found bool, err error)
	StoreCoordinates(ctx context.Context, key string, coords models.Coordinates) error
	Name() string
}

const (
	keyPrefix    = "key:"
	coordsPrefix = "coords:"
)

// MemoryLocationStore keeps resolutions in process memory with a TTL
type MemoryLocationStore struct {
	items *gocache.Cache
}

// Ensure MemoryLocationStore implements LocationStore
var _ LocationStore = (*MemoryLocationStore)(nil)

// NewMemoryLocationStore creates an in-memory store. A ttl <= 0 keeps entries forever.
func NewMemoryLocationStore(ttl time.Duration) *MemoryLocationStore {
	expiration := ttl
	cleanup := 2 * ttl
	if ttl <= 0 {
		expiration = gocache.NoExpiration
		cleanup = 0
	}
	return &MemoryLocationStore{items: gocache.New(expiration, cleanup)}
}

func (s *MemoryLocationStore) Name() string { return "memory" }

func (s *MemoryLocationStore) LookupKey(_ context.Context, name string) (string, bool, error) {
	v, found := s.items.Get(keyPrefix + name)
	if !found {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (s *MemoryLocationStore) StoreKey(_ context.Context, name, key string) error {
	s.items.SetDefault(keyPrefix+name, key)
	return nil
}

func (s *MemoryLocationStore) LookupCoordinates(_ context.Context, key string) (models.Coordinates, bool, error) {
	v, found := s.items.Get(coordsPrefix + key)
	if !found {
		return models.Coordinates{}, false, nil
	}
	return v.(models.Coordinates), true, nil
}

func (s *MemoryLocationStore) StoreCoordinates(_ context.Context, key string, coords models.Coordinates) error {
	s.items.SetDefault(coordsPrefix+key, coords)
	return nil
}

// ItemCount returns the number of stored entries
func (s *MemoryLocationStore) ItemCount() int {
	return s.items.ItemCount()
}
