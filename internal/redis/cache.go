package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore caches route topology in Redis. Routes and route-stops are
// immutable once created, so the settlement engine may serve them from cache;
// rider balances are never cached.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Topology is immutable, so the TTL only bounds cache size.
const topologyCacheTTL = 10 * time.Minute

// Key prefixes
const (
	routeCachePrefix     = "cache:route:"
	routeStopCachePrefix = "cache:routestop:"
)

// CachedRoute represents a cached route with its pricing.
type CachedRoute struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	BaseFareCents   int64  `json:"base_fare_cents"`
	PricePerKmCents int64  `json:"price_per_km_cents"`
}

// CachedRouteStop represents a cached route-stop.
type CachedRouteStop struct {
	ID         string  `json:"id"`
	RouteID    string  `json:"route_id"`
	StopID     string  `json:"stop_id"`
	StopOrder  int     `json:"stop_order"`
	DistanceKm float64 `json:"distance_km"`
}

// GetRoute retrieves a route from cache.
func (s *CacheStore) GetRoute(ctx context.Context, routeID string) (*CachedRoute, error) {
	key := routeCachePrefix + routeID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var route CachedRoute
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// SetRoute stores a route in cache.
func (s *CacheStore) SetRoute(ctx context.Context, route *CachedRoute) error {
	key := routeCachePrefix + route.ID
	data, err := json.Marshal(route)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, topologyCacheTTL).Err()
}

// GetRouteStop retrieves a route-stop from cache.
func (s *CacheStore) GetRouteStop(ctx context.Context, routeStopID string) (*CachedRouteStop, error) {
	key := routeStopCachePrefix + routeStopID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var rs CachedRouteStop
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// SetRouteStop stores a route-stop in cache.
func (s *CacheStore) SetRouteStop(ctx context.Context, rs *CachedRouteStop) error {
	key := routeStopCachePrefix + rs.ID
	data, err := json.Marshal(rs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, topologyCacheTTL).Err()
}
