package repository

import (
	"context"

	"shuttle/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetActiveByRiderID retrieves the rider's ACTIVE trip.
	// Returns nil if no active trip exists.
	GetActiveByRiderID(ctx context.Context, riderID string) (*domain.Trip, error)

	// GetActiveByShuttleID retrieves every ACTIVE trip on a shuttle.
	GetActiveByShuttleID(ctx context.Context, shuttleID string) ([]*domain.Trip, error)

	// Close transitions an ACTIVE trip to the given terminal status.
	// Returns ErrTripNotActive if the trip exists but is not ACTIVE.
	Close(ctx context.Context, id string, status domain.TripStatus) error
}
