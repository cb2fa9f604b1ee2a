package repository

import (
	"context"

	"shuttle/internal/domain"
)

// LedgerRepository defines the persistence operations for the transaction
// ledger. The ledger is append-only; entries are never updated or deleted.
type LedgerRepository interface {
	// Append persists a new ledger entry.
	Append(ctx context.Context, entry *domain.LedgerEntry) error

	// GetByRider retrieves a rider's entries of the given type, newest first.
	// An empty type matches all entries.
	GetByRider(ctx context.Context, riderID string, entryType domain.EntryType) ([]*domain.LedgerEntry, error)

	// GetAll retrieves all entries, newest first.
	GetAll(ctx context.Context) ([]*domain.LedgerEntry, error)

	// SumByRider returns the sum of a rider's entry amounts. The result must
	// equal the rider's cached wallet balance at every observable point.
	SumByRider(ctx context.Context, riderID string) (int64, error)
}
