package postgres

import (
	"context"
	"database/sql"

	"shuttle/internal/domain"
	"shuttle/internal/repository"
)

// LedgerRepository is a PostgreSQL implementation of repository.LedgerRepository.
type LedgerRepository struct {
	q Querier
}

// NewLedgerRepository creates a new PostgreSQL ledger repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{q: db}
}

// NewLedgerRepositoryWithTx creates a ledger repository using a transaction.
func NewLedgerRepositoryWithTx(tx *sql.Tx) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Append persists a new ledger entry.
func (r *LedgerRepository) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, rider_id, amount_cents, type, timestamp, related_trip_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var relatedTripID sql.NullString
	if entry.RelatedTripID != "" {
		relatedTripID = sql.NullString{String: entry.RelatedTripID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		entry.RiderID,
		entry.AmountCents,
		entry.Type,
		entry.Timestamp,
		relatedTripID,
	)

	return err
}

// GetByRider retrieves a rider's entries of the given type, newest first.
func (r *LedgerRepository) GetByRider(ctx context.Context, riderID string, entryType domain.EntryType) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, rider_id, amount_cents, type, timestamp, related_trip_id
		FROM ledger_entries
		WHERE rider_id = $1 AND ($2 = '' OR type = $2)
		ORDER BY timestamp DESC
	`

	rows, err := r.q.QueryContext(ctx, query, riderID, string(entryType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetAll retrieves all entries, newest first.
func (r *LedgerRepository) GetAll(ctx context.Context) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, rider_id, amount_cents, type, timestamp, related_trip_id
		FROM ledger_entries ORDER BY timestamp DESC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SumByRider returns the sum of a rider's entry amounts.
func (r *LedgerRepository) SumByRider(ctx context.Context, riderID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM ledger_entries WHERE rider_id = $1
	`

	var sum int64
	if err := r.q.QueryRowContext(ctx, query, riderID).Scan(&sum); err != nil {
		return 0, err
	}

	return sum, nil
}

func scanEntries(rows *sql.Rows) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		var relatedTripID sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.RiderID,
			&entry.AmountCents,
			&entry.Type,
			&entry.Timestamp,
			&relatedTripID,
		); err != nil {
			return nil, err
		}

		if relatedTripID.Valid {
			entry.RelatedTripID = relatedTripID.String
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// Ensure LedgerRepository implements repository.LedgerRepository.
var _ repository.LedgerRepository = (*LedgerRepository)(nil)
