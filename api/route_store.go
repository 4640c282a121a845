package api

import (
	"sort"
	"sync"
	"time"

	"route-weather/models"
)

// StoredRoute is the latest computation of a named route
type StoredRoute struct {
	Name      string               `json:"name"`
	Dataset   *models.RouteDataset `json:"dataset,omitempty"`
	Updated   time.Time            `json:"updated"`
	LastError string               `json:"lastError,omitempty"`
}

// RouteStore holds the latest dataset of each scheduled route
type RouteStore struct {
	data  map[string]StoredRoute // key is route name
	mutex sync.RWMutex
	now   func() time.Time
}

// NewRouteStore creates a new in-memory route store
func NewRouteStore() *RouteStore {
	return &RouteStore{
		data: make(map[string]StoredRoute),
		now:  time.Now,
	}
}

// UpdateRoute replaces the dataset of a route and clears any recorded failure
func (s *RouteStore) UpdateRoute(name string, ds *models.RouteDataset) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[name] = StoredRoute{
		Name:    name,
		Dataset: ds,
		Updated: s.now(),
	}
}

// RecordFailure notes a failed refresh. The previous dataset, if any, is kept.
func (s *RouteStore) RecordFailure(name string, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, exists := s.data[name]
	if !exists {
		entry = StoredRoute{Name: name, Updated: s.now()}
	}
	entry.LastError = err.Error()
	s.data[name] = entry
}

// GetRoute retrieves the stored state of a route
func (s *RouteStore) GetRoute(name string) (StoredRoute, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entry, exists := s.data[name]
	return entry, exists
}

// ListRoutes returns the names of all stored routes, sorted
func (s *RouteStore) ListRoutes() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PruneOld removes routes not updated within maxAge
func (s *RouteStore) PruneOld(maxAge time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := s.now().Add(-maxAge)
	prunedCount := 0

	for name, entry := range s.data {
		if entry.Updated.Before(cutoff) {
			delete(s.data, name)
			prunedCount++
		}
	}

	return prunedCount
}
