package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireRiderLock(ctx context.Context, riderID string, ttl time.Duration) (bool, error)
	ReleaseRiderLock(ctx context.Context, riderID string) error
}

// TopologyCacheInterface defines the interface for the route-topology cache.
type TopologyCacheInterface interface {
	GetRoute(ctx context.Context, routeID string) (*CachedRoute, error)
	SetRoute(ctx context.Context, route *CachedRoute) error
	GetRouteStop(ctx context.Context, routeStopID string) (*CachedRouteStop, error)
	SetRouteStop(ctx context.Context, rs *CachedRouteStop) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface     = (*LockStore)(nil)
	_ TopologyCacheInterface = (*CacheStore)(nil)
)
