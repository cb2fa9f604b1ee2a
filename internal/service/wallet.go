package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shuttle/internal/domain"
	"shuttle/internal/redis"
	"shuttle/internal/repository"
)

// WalletService handles wallet operations outside of fare settlement:
// top-ups, admin adjustments, balance and history reads.
type WalletService struct {
	txr        repository.TxRunner
	riderRepo  repository.RiderRepository
	ledgerRepo repository.LedgerRepository
	lockStore  redis.LockStoreInterface
}

// NewWalletService creates a new WalletService.
func NewWalletService(
	txr repository.TxRunner,
	riderRepo repository.RiderRepository,
	ledgerRepo repository.LedgerRepository,
	lockStore redis.LockStoreInterface,
) *WalletService {
	return &WalletService{
		txr:        txr,
		riderRepo:  riderRepo,
		ledgerRepo: ledgerRepo,
		lockStore:  lockStore,
	}
}

// AddFunds credits the rider's wallet. Amount must be positive. The balance
// update and the AddFunds ledger entry commit together.
func (s *WalletService) AddFunds(ctx context.Context, riderID string, amountCents int64) (int64, error) {
	if riderID == "" {
		return 0, ErrInvalidRiderID
	}
	if amountCents <= 0 {
		return 0, ErrInvalidAmount
	}

	return s.applyEntry(ctx, riderID, amountCents, domain.EntryTypeAddFunds)
}

// Adjust applies a signed manual correction to the rider's wallet, recorded
// as an AdminAdjustment ledger entry.
func (s *WalletService) Adjust(ctx context.Context, riderID string, deltaCents int64) (int64, error) {
	if riderID == "" {
		return 0, ErrInvalidRiderID
	}
	if deltaCents == 0 {
		return 0, ErrInvalidAmount
	}

	return s.applyEntry(ctx, riderID, deltaCents, domain.EntryTypeAdminAdjustment)
}

func (s *WalletService) applyEntry(ctx context.Context, riderID string, amountCents int64, entryType domain.EntryType) (int64, error) {
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireRiderLock(ctx, riderID, riderLockTTL)
		if err != nil {
			return 0, err
		}
		if !locked {
			return 0, ErrRiderBusy
		}
		defer func() { _ = s.lockStore.ReleaseRiderLock(ctx, riderID) }()
	}

	var balance int64
	err := s.txr.WithinTx(ctx, func(st repository.Stores) error {
		var txErr error
		balance, txErr = st.Riders.AdjustBalance(ctx, riderID, amountCents)
		if txErr != nil {
			return txErr
		}

		return st.Ledger.Append(ctx, &domain.LedgerEntry{
			ID:          uuid.New().String(),
			RiderID:     riderID,
			AmountCents: amountCents,
			Type:        entryType,
			Timestamp:   time.Now(),
		})
	})
	if err != nil {
		return 0, err
	}

	return balance, nil
}

// Balance reads the rider's current wallet balance from the store.
func (s *WalletService) Balance(ctx context.Context, riderID string) (int64, error) {
	if riderID == "" {
		return 0, ErrInvalidRiderID
	}

	rider, err := s.riderRepo.GetByID(ctx, riderID)
	if err != nil {
		return 0, err
	}

	return rider.BalanceCents, nil
}

// RideHistory returns the rider's ride payment entries, newest first.
func (s *WalletService) RideHistory(ctx context.Context, riderID string) ([]*domain.LedgerEntry, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}

	if _, err := s.riderRepo.GetByID(ctx, riderID); err != nil {
		return nil, err
	}

	return s.ledgerRepo.GetByRider(ctx, riderID, domain.EntryTypeRidePayment)
}

// ReconcileResult compares a rider's cached balance with the ledger sum.
type ReconcileResult struct {
	RiderID        string
	BalanceCents   int64
	LedgerSumCents int64
	Consistent     bool
}

// Reconcile verifies the ledger invariant for one rider: the wallet balance
// must equal the sum of all ledger entry amounts.
func (s *WalletService) Reconcile(ctx context.Context, riderID string) (*ReconcileResult, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}

	rider, err := s.riderRepo.GetByID(ctx, riderID)
	if err != nil {
		return nil, err
	}

	sum, err := s.ledgerRepo.SumByRider(ctx, riderID)
	if err != nil {
		return nil, err
	}

	return &ReconcileResult{
		RiderID:        rider.ID,
		BalanceCents:   rider.BalanceCents,
		LedgerSumCents: sum,
		Consistent:     rider.BalanceCents == sum,
	}, nil
}
