package service

import (
	"context"

	"shuttle/internal/repository"
)

// ShiftService drives end-of-shift settlement for a shuttle.
type ShiftService struct {
	tripRepo    repository.TripRepository
	shuttleRepo repository.ShuttleRepository
	settlement  *SettlementService
}

// NewShiftService creates a new ShiftService.
func NewShiftService(
	tripRepo repository.TripRepository,
	shuttleRepo repository.ShuttleRepository,
	settlement *SettlementService,
) *ShiftService {
	return &ShiftService{
		tripRepo:    tripRepo,
		shuttleRepo: shuttleRepo,
		settlement:  settlement,
	}
}

// TripSettlement is the per-trip result of an end-of-shift settlement.
type TripSettlement struct {
	TripID    string
	RiderID   string
	FareCents int64
	Err       error
}

// EndShift force-settles every ACTIVE trip on the shuttle at the maximum
// fare. Each trip settles in its own transaction: one trip failing never
// blocks or rolls back the others. The returned slice holds one entry per
// active trip, in no particular order.
func (s *ShiftService) EndShift(ctx context.Context, shuttleID string) ([]TripSettlement, error) {
	if shuttleID == "" {
		return nil, ErrInvalidShuttleID
	}

	if _, err := s.shuttleRepo.GetByID(ctx, shuttleID); err != nil {
		return nil, err
	}

	trips, err := s.tripRepo.GetActiveByShuttleID(ctx, shuttleID)
	if err != nil {
		return nil, err
	}

	results := make([]TripSettlement, 0, len(trips))
	for _, trip := range trips {
		fare, err := s.settlement.ForceSettleTrip(ctx, trip)
		results = append(results, TripSettlement{
			TripID:    trip.ID,
			RiderID:   trip.RiderID,
			FareCents: fare,
			Err:       err,
		})
	}

	return results, nil
}
