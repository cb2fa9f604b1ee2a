package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"shuttle/internal/domain"
	"shuttle/internal/repository"
)

// RiderRepository is a PostgreSQL implementation of repository.RiderRepository.
type RiderRepository struct {
	q Querier
}

// NewRiderRepository creates a new PostgreSQL rider repository.
func NewRiderRepository(db *sql.DB) *RiderRepository {
	return &RiderRepository{q: db}
}

// NewRiderRepositoryWithTx creates a rider repository using a transaction.
func NewRiderRepositoryWithTx(tx *sql.Tx) *RiderRepository {
	return &RiderRepository{q: tx}
}

// Create persists a new rider.
func (r *RiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	query := `
		INSERT INTO riders (id, username, email, password_hash, role, balance_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		rider.ID,
		rider.Username,
		rider.Email,
		rider.PasswordHash,
		rider.Role,
		rider.BalanceCents,
		rider.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}

	return err
}

// GetByID retrieves a rider by ID.
func (r *RiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	query := `
		SELECT id, username, email, password_hash, role, balance_cents, created_at
		FROM riders WHERE id = $1
	`

	return r.scanRider(r.q.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a rider by username.
func (r *RiderRepository) GetByUsername(ctx context.Context, username string) (*domain.Rider, error) {
	query := `
		SELECT id, username, email, password_hash, role, balance_cents, created_at
		FROM riders WHERE username = $1
	`

	return r.scanRider(r.q.QueryRowContext(ctx, query, username))
}

// GetAll retrieves all riders.
func (r *RiderRepository) GetAll(ctx context.Context) ([]*domain.Rider, error) {
	query := `
		SELECT id, username, email, password_hash, role, balance_cents, created_at
		FROM riders ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var riders []*domain.Rider
	for rows.Next() {
		var rider domain.Rider
		if err := rows.Scan(
			&rider.ID,
			&rider.Username,
			&rider.Email,
			&rider.PasswordHash,
			&rider.Role,
			&rider.BalanceCents,
			&rider.CreatedAt,
		); err != nil {
			return nil, err
		}
		riders = append(riders, &rider)
	}

	return riders, rows.Err()
}

// AdjustBalance applies a signed delta to the rider's balance and returns the
// new balance.
func (r *RiderRepository) AdjustBalance(ctx context.Context, id string, deltaCents int64) (int64, error) {
	query := `
		UPDATE riders SET balance_cents = balance_cents + $1
		WHERE id = $2
		RETURNING balance_cents
	`

	var balance int64
	err := r.q.QueryRowContext(ctx, query, deltaCents, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}

	return balance, nil
}

func (r *RiderRepository) scanRider(row *sql.Row) (*domain.Rider, error) {
	var rider domain.Rider
	err := row.Scan(
		&rider.ID,
		&rider.Username,
		&rider.Email,
		&rider.PasswordHash,
		&rider.Role,
		&rider.BalanceCents,
		&rider.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &rider, nil
}

// isUniqueViolation reports whether err is a postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Ensure RiderRepository implements repository.RiderRepository.
var _ repository.RiderRepository = (*RiderRepository)(nil)
