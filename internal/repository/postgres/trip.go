package postgres

import (
	"context"
	"database/sql"
	"errors"

	"shuttle/internal/domain"
	"shuttle/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, rider_id, shuttle_id, tap_on_route_stop_id, tap_on_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.RiderID,
		trip.ShuttleID,
		trip.TapOnRouteStopID,
		trip.TapOnTime,
		trip.Status,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `
		SELECT id, rider_id, shuttle_id, tap_on_route_stop_id, tap_on_time, status
		FROM trips WHERE id = $1
	`

	var trip domain.Trip
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&trip.ID,
		&trip.RiderID,
		&trip.ShuttleID,
		&trip.TapOnRouteStopID,
		&trip.TapOnTime,
		&trip.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &trip, nil
}

// GetActiveByRiderID retrieves the rider's ACTIVE trip.
// Returns nil if no active trip exists.
func (r *TripRepository) GetActiveByRiderID(ctx context.Context, riderID string) (*domain.Trip, error) {
	query := `
		SELECT id, rider_id, shuttle_id, tap_on_route_stop_id, tap_on_time, status
		FROM trips
		WHERE rider_id = $1 AND status = $2
		LIMIT 1
	`

	var trip domain.Trip
	err := r.q.QueryRowContext(ctx, query, riderID, domain.TripStatusActive).Scan(
		&trip.ID,
		&trip.RiderID,
		&trip.ShuttleID,
		&trip.TapOnRouteStopID,
		&trip.TapOnTime,
		&trip.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &trip, nil
}

// GetActiveByShuttleID retrieves every ACTIVE trip on a shuttle.
func (r *TripRepository) GetActiveByShuttleID(ctx context.Context, shuttleID string) ([]*domain.Trip, error) {
	query := `
		SELECT id, rider_id, shuttle_id, tap_on_route_stop_id, tap_on_time, status
		FROM trips
		WHERE shuttle_id = $1 AND status = $2
		ORDER BY tap_on_time
	`

	rows, err := r.q.QueryContext(ctx, query, shuttleID, domain.TripStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		var trip domain.Trip
		if err := rows.Scan(
			&trip.ID,
			&trip.RiderID,
			&trip.ShuttleID,
			&trip.TapOnRouteStopID,
			&trip.TapOnTime,
			&trip.Status,
		); err != nil {
			return nil, err
		}
		trips = append(trips, &trip)
	}

	return trips, rows.Err()
}

// Close transitions an ACTIVE trip to a terminal status. The status guard in
// the WHERE clause keeps a settled trip from ever being settled twice.
func (r *TripRepository) Close(ctx context.Context, id string, status domain.TripStatus) error {
	query := `UPDATE trips SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query, status, id, domain.TripStatusActive)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return repository.ErrTripNotActive
	}

	return nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
