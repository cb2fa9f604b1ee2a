package postgres

import (
	"context"
	"database/sql"
	"errors"

	"shuttle/internal/domain"
	"shuttle/internal/repository"
)

// RouteRepository is a PostgreSQL implementation of repository.RouteRepository.
type RouteRepository struct {
	q Querier
}

// NewRouteRepository creates a new PostgreSQL route repository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{q: db}
}

// NewRouteRepositoryWithTx creates a route repository using a transaction.
func NewRouteRepositoryWithTx(tx *sql.Tx) *RouteRepository {
	return &RouteRepository{q: tx}
}

// CreateRoute persists a new route.
func (r *RouteRepository) CreateRoute(ctx context.Context, route *domain.Route) error {
	query := `
		INSERT INTO routes (id, name, base_fare_cents, price_per_km_cents)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.ExecContext(ctx, query,
		route.ID,
		route.Name,
		route.BaseFareCents,
		route.PricePerKmCents,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}

	return err
}

// GetRoute retrieves a route by ID.
func (r *RouteRepository) GetRoute(ctx context.Context, id string) (*domain.Route, error) {
	query := `
		SELECT id, name, base_fare_cents, price_per_km_cents
		FROM routes WHERE id = $1
	`

	var route domain.Route
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&route.ID,
		&route.Name,
		&route.BaseFareCents,
		&route.PricePerKmCents,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &route, nil
}

// GetAllRoutes retrieves all routes.
func (r *RouteRepository) GetAllRoutes(ctx context.Context) ([]*domain.Route, error) {
	query := `
		SELECT id, name, base_fare_cents, price_per_km_cents
		FROM routes ORDER BY name
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*domain.Route
	for rows.Next() {
		var route domain.Route
		if err := rows.Scan(
			&route.ID,
			&route.Name,
			&route.BaseFareCents,
			&route.PricePerKmCents,
		); err != nil {
			return nil, err
		}
		routes = append(routes, &route)
	}

	return routes, rows.Err()
}

// CreateStop persists a new stop.
func (r *RouteRepository) CreateStop(ctx context.Context, stop *domain.Stop) error {
	query := `INSERT INTO stops (id, name) VALUES ($1, $2)`

	_, err := r.q.ExecContext(ctx, query, stop.ID, stop.Name)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}

	return err
}

// GetAllStops retrieves all stops.
func (r *RouteRepository) GetAllStops(ctx context.Context) ([]*domain.Stop, error) {
	query := `SELECT id, name FROM stops ORDER BY name`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stops []*domain.Stop
	for rows.Next() {
		var stop domain.Stop
		if err := rows.Scan(&stop.ID, &stop.Name); err != nil {
			return nil, err
		}
		stops = append(stops, &stop)
	}

	return stops, rows.Err()
}

// AddRouteStop attaches a stop to a route.
func (r *RouteRepository) AddRouteStop(ctx context.Context, rs *domain.RouteStop) error {
	query := `
		INSERT INTO route_stops (id, route_id, stop_id, stop_order, distance_km)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		rs.ID,
		rs.RouteID,
		rs.StopID,
		rs.StopOrder,
		rs.DistanceKm,
	)

	return err
}

// GetRouteStop retrieves a route-stop by ID.
func (r *RouteRepository) GetRouteStop(ctx context.Context, id string) (*domain.RouteStop, error) {
	query := `
		SELECT id, route_id, stop_id, stop_order, distance_km
		FROM route_stops WHERE id = $1
	`

	return r.scanRouteStop(r.q.QueryRowContext(ctx, query, id))
}

// GetRouteStops retrieves a route's stops ordered by stop order.
func (r *RouteRepository) GetRouteStops(ctx context.Context, routeID string) ([]*domain.RouteStop, error) {
	query := `
		SELECT id, route_id, stop_id, stop_order, distance_km
		FROM route_stops WHERE route_id = $1 ORDER BY stop_order
	`

	rows, err := r.q.QueryContext(ctx, query, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stops []*domain.RouteStop
	for rows.Next() {
		var rs domain.RouteStop
		if err := rows.Scan(
			&rs.ID,
			&rs.RouteID,
			&rs.StopID,
			&rs.StopOrder,
			&rs.DistanceKm,
		); err != nil {
			return nil, err
		}
		stops = append(stops, &rs)
	}

	return stops, rows.Err()
}

// GetTerminalStop retrieves the route-stop with the highest stop order.
func (r *RouteRepository) GetTerminalStop(ctx context.Context, routeID string) (*domain.RouteStop, error) {
	query := `
		SELECT id, route_id, stop_id, stop_order, distance_km
		FROM route_stops WHERE route_id = $1
		ORDER BY stop_order DESC LIMIT 1
	`

	return r.scanRouteStop(r.q.QueryRowContext(ctx, query, routeID))
}

func (r *RouteRepository) scanRouteStop(row *sql.Row) (*domain.RouteStop, error) {
	var rs domain.RouteStop
	err := row.Scan(
		&rs.ID,
		&rs.RouteID,
		&rs.StopID,
		&rs.StopOrder,
		&rs.DistanceKm,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &rs, nil
}

// Ensure RouteRepository implements repository.RouteRepository.
var _ repository.RouteRepository = (*RouteRepository)(nil)
