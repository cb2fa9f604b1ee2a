package repository

import (
	"context"

	"shuttle/internal/domain"
)

// RouteRepository defines the persistence operations for route topology.
// Routes, stops and route-stops are immutable once created; the settlement
// engine relies on that when it caches them.
type RouteRepository interface {
	// CreateRoute persists a new route.
	CreateRoute(ctx context.Context, route *domain.Route) error

	// GetRoute retrieves a route by ID.
	GetRoute(ctx context.Context, id string) (*domain.Route, error)

	// GetAllRoutes retrieves all routes.
	GetAllRoutes(ctx context.Context) ([]*domain.Route, error)

	// CreateStop persists a new stop.
	CreateStop(ctx context.Context, stop *domain.Stop) error

	// GetAllStops retrieves all stops.
	GetAllStops(ctx context.Context) ([]*domain.Stop, error)

	// AddRouteStop attaches a stop to a route at a given order and distance.
	AddRouteStop(ctx context.Context, rs *domain.RouteStop) error

	// GetRouteStop retrieves a route-stop by ID.
	GetRouteStop(ctx context.Context, id string) (*domain.RouteStop, error)

	// GetRouteStops retrieves a route's stops ordered by stop order.
	GetRouteStops(ctx context.Context, routeID string) ([]*domain.RouteStop, error)

	// GetTerminalStop retrieves the route-stop with the highest stop order
	// on a route, used for maximum-fare settlement.
	GetTerminalStop(ctx context.Context, routeID string) (*domain.RouteStop, error)
}
