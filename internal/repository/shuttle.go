package repository

import (
	"context"

	"shuttle/internal/domain"
)

// ShuttleRepository defines the persistence operations for shuttles.
type ShuttleRepository interface {
	// Create persists a new shuttle.
	Create(ctx context.Context, shuttle *domain.Shuttle) error

	// GetByID retrieves a shuttle by ID.
	GetByID(ctx context.Context, id string) (*domain.Shuttle, error)

	// GetAll retrieves all shuttles.
	GetAll(ctx context.Context) ([]*domain.Shuttle, error)
}
