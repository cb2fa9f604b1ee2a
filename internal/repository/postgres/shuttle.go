package postgres

import (
	"context"
	"database/sql"
	"errors"

	"shuttle/internal/domain"
	"shuttle/internal/repository"
)

// ShuttleRepository is a PostgreSQL implementation of repository.ShuttleRepository.
type ShuttleRepository struct {
	db *sql.DB
}

// NewShuttleRepository creates a new ShuttleRepository.
func NewShuttleRepository(db *sql.DB) *ShuttleRepository {
	return &ShuttleRepository{db: db}
}

// Create persists a new shuttle.
func (r *ShuttleRepository) Create(ctx context.Context, shuttle *domain.Shuttle) error {
	query := `INSERT INTO shuttles (id, name, capacity) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, shuttle.ID, shuttle.Name, shuttle.Capacity)
	return err
}

// GetByID retrieves a shuttle by ID.
func (r *ShuttleRepository) GetByID(ctx context.Context, id string) (*domain.Shuttle, error) {
	query := `SELECT id, name, capacity FROM shuttles WHERE id = $1`

	var shuttle domain.Shuttle
	err := r.db.QueryRowContext(ctx, query, id).Scan(&shuttle.ID, &shuttle.Name, &shuttle.Capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &shuttle, nil
}

// GetAll retrieves all shuttles.
func (r *ShuttleRepository) GetAll(ctx context.Context) ([]*domain.Shuttle, error) {
	query := `SELECT id, name, capacity FROM shuttles ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shuttles []*domain.Shuttle
	for rows.Next() {
		var shuttle domain.Shuttle
		if err := rows.Scan(&shuttle.ID, &shuttle.Name, &shuttle.Capacity); err != nil {
			return nil, err
		}
		shuttles = append(shuttles, &shuttle)
	}

	return shuttles, rows.Err()
}

// Ensure ShuttleRepository implements repository.ShuttleRepository.
var _ repository.ShuttleRepository = (*ShuttleRepository)(nil)
