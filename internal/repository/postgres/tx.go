package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"shuttle/internal/repository"
)

// TxManager runs store operations inside a single database transaction.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx begins a transaction, hands fn repositories scoped to it, and
// commits on success. Any error from fn rolls everything back, so the
// balance update, ledger append and trip transition of a settlement become
// visible together or not at all.
func (m *TxManager) WithinTx(ctx context.Context, fn func(s repository.Stores) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	stores := repository.Stores{
		Riders: NewRiderRepositoryWithTx(tx),
		Routes: NewRouteRepositoryWithTx(tx),
		Trips:  NewTripRepositoryWithTx(tx),
		Ledger: NewLedgerRepositoryWithTx(tx),
	}

	if err := fn(stores); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// Ensure TxManager implements repository.TxRunner.
var _ repository.TxRunner = (*TxManager)(nil)
