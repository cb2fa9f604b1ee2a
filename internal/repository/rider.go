package repository

import (
	"context"

	"shuttle/internal/domain"
)

// RiderRepository defines the persistence operations for rider accounts.
type RiderRepository interface {
	// Create persists a new rider.
	Create(ctx context.Context, rider *domain.Rider) error

	// GetByID retrieves a rider by ID.
	GetByID(ctx context.Context, id string) (*domain.Rider, error)

	// GetByUsername retrieves a rider by username.
	GetByUsername(ctx context.Context, username string) (*domain.Rider, error)

	// GetAll retrieves all riders.
	GetAll(ctx context.Context) ([]*domain.Rider, error)

	// AdjustBalance applies a signed delta to the rider's wallet balance and
	// returns the new balance. Callers must pair every adjustment with a
	// ledger append in the same transaction.
	AdjustBalance(ctx context.Context, id string, deltaCents int64) (int64, error)
}
