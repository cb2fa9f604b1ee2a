package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shuttle/internal/domain"
	"shuttle/internal/redis"
	"shuttle/internal/repository"
)

const riderLockTTL = 10 * time.Second

// SettlementService is the fare settlement engine. It interprets tap events
// against the rider's current trip state and commits the resulting balance,
// ledger and trip mutations as one atomic unit per tap.
type SettlementService struct {
	txr       repository.TxRunner
	lockStore redis.LockStoreInterface
	cache     redis.TopologyCacheInterface
}

// NewSettlementService creates a new SettlementService. lockStore and cache
// may be nil (no cross-session serialization / no topology caching).
func NewSettlementService(
	txr repository.TxRunner,
	lockStore redis.LockStoreInterface,
	cache redis.TopologyCacheInterface,
) *SettlementService {
	return &SettlementService{
		txr:       txr,
		lockStore: lockStore,
		cache:     cache,
	}
}

// TapRequest contains the parameters of a tap event.
type TapRequest struct {
	RiderID     string
	RouteStopID string
	ShuttleID   string
}

// TapOutcome classifies the result of a tap event. Business rejections
// (insufficient funds, duplicate tap) are outcomes, not errors.
type TapOutcome string

const (
	// TapOutcomeTappedOn: a new trip was opened. No money moved.
	TapOutcomeTappedOn TapOutcome = "TAPPED_ON"
	// TapOutcomeTappedOff: the active trip was completed and the fare charged.
	TapOutcomeTappedOff TapOutcome = "TAPPED_OFF"
	// TapOutcomeAlreadyTappedOn: duplicate tap at the tap-on stop; no effects.
	TapOutcomeAlreadyTappedOn TapOutcome = "ALREADY_TAPPED_ON"
	// TapOutcomeInsufficientFunds: tap-on denied; no trip, no charge.
	TapOutcomeInsufficientFunds TapOutcome = "INSUFFICIENT_FUNDS"
	// TapOutcomeForcedOffTappedOn: a forgotten trip was force-settled at the
	// maximum fare and a fresh trip was opened on the new route.
	TapOutcomeForcedOffTappedOn TapOutcome = "FORCED_OFF_TAPPED_ON"
	// TapOutcomeForcedOffInsufficientFunds: a forgotten trip was
	// force-settled and the reduced balance no longer covers the new route's
	// base fare, so the fresh tap-on was denied.
	TapOutcomeForcedOffInsufficientFunds TapOutcome = "FORCED_OFF_INSUFFICIENT_FUNDS"
)

// TapResult contains the outcome of a tap event.
type TapResult struct {
	Outcome TapOutcome

	// Trip is the trip opened or closed by this tap, when any.
	Trip *domain.Trip
	// FareCents is the fare charged on a normal tap-off.
	FareCents int64

	// ForcedTrip is the auto-completed trip when a forgotten tap-off was
	// settled as part of this tap.
	ForcedTrip *domain.Trip
	// ForcedFareCents is the maximum fare charged for ForcedTrip.
	ForcedFareCents int64

	// BalanceCents is the rider's wallet balance after all effects.
	BalanceCents int64
}

// HandleTap processes a single tap event. The whole decision runs under the
// rider's lock and inside one transaction: either every effect of the tap
// (balance, ledger, trip status) commits, or none do and the tap may be
// safely retried.
func (s *SettlementService) HandleTap(ctx context.Context, req TapRequest) (*TapResult, error) {
	if req.RiderID == "" {
		return nil, ErrInvalidRiderID
	}
	if req.RouteStopID == "" {
		return nil, ErrInvalidRouteStopID
	}
	if req.ShuttleID == "" {
		return nil, ErrInvalidShuttleID
	}

	release, err := s.lockRider(ctx, req.RiderID)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *TapResult
	err = s.txr.WithinTx(ctx, func(st repository.Stores) error {
		var txErr error
		result, txErr = s.handleTapTx(ctx, st, req)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// handleTapTx is the tap-event state machine, executed inside a transaction.
func (s *SettlementService) handleTapTx(ctx context.Context, st repository.Stores, req TapRequest) (*TapResult, error) {
	rider, err := st.Riders.GetByID(ctx, req.RiderID)
	if err != nil {
		return nil, err
	}

	currentStop, err := s.routeStop(ctx, st, req.RouteStopID)
	if err != nil {
		return nil, err
	}

	route, err := s.route(ctx, st, currentStop.RouteID)
	if err != nil {
		return nil, err
	}

	trip, err := st.Trips.GetActiveByRiderID(ctx, rider.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &TapResult{BalanceCents: rider.BalanceCents}

	if trip != nil {
		if trip.TapOnRouteStopID == currentStop.ID {
			// Duplicate tap at the tap-on stop. Idempotent no-op.
			result.Outcome = TapOutcomeAlreadyTappedOn
			result.Trip = trip
			return result, nil
		}

		tapOnStop, err := s.routeStop(ctx, st, trip.TapOnRouteStopID)
		if err != nil {
			return nil, err
		}

		if tapOnStop.RouteID == currentStop.RouteID {
			// Tap-off on the same route.
			fare := CalculateFare(route.BaseFareCents, route.PricePerKmCents,
				TripDistance(tapOnStop.DistanceKm, currentStop.DistanceKm))

			balance, err := s.settleTrip(ctx, st, trip, fare, domain.TripStatusCompleted, now)
			if err != nil {
				return nil, err
			}

			result.Outcome = TapOutcomeTappedOff
			result.Trip = trip
			result.FareCents = fare
			result.BalanceCents = balance
			return result, nil
		}

		// Tap on a different route: the rider forgot to tap off. Charge the
		// maximum fare on the old route, then evaluate this tap as a fresh
		// tap-on against the reduced balance.
		maxFare, err := s.maxFare(ctx, st, tapOnStop)
		if err != nil {
			return nil, err
		}

		balance, err := s.settleTrip(ctx, st, trip, maxFare, domain.TripStatusAutoCompleted, now)
		if err != nil {
			return nil, err
		}

		result.ForcedTrip = trip
		result.ForcedFareCents = maxFare
		result.BalanceCents = balance

		if balance < route.BaseFareCents {
			result.Outcome = TapOutcomeForcedOffInsufficientFunds
			return result, nil
		}

		newTrip, err := s.openTrip(ctx, st, rider.ID, req.ShuttleID, currentStop.ID, now)
		if err != nil {
			return nil, err
		}

		result.Outcome = TapOutcomeForcedOffTappedOn
		result.Trip = newTrip
		return result, nil
	}

	// No active trip: tap-on.
	if rider.BalanceCents < route.BaseFareCents {
		result.Outcome = TapOutcomeInsufficientFunds
		return result, nil
	}

	newTrip, err := s.openTrip(ctx, st, rider.ID, req.ShuttleID, currentStop.ID, now)
	if err != nil {
		return nil, err
	}

	result.Outcome = TapOutcomeTappedOn
	result.Trip = newTrip
	return result, nil
}

// ForceSettleTrip settles an ACTIVE trip at the maximum fare for its route
// and marks it AUTO_COMPLETED, as one atomic unit under the rider's lock.
// Returns the fare charged. Used by end-of-shift settlement.
func (s *SettlementService) ForceSettleTrip(ctx context.Context, trip *domain.Trip) (int64, error) {
	if trip == nil || trip.ID == "" {
		return 0, ErrInvalidTripID
	}

	release, err := s.lockRider(ctx, trip.RiderID)
	if err != nil {
		return 0, err
	}
	defer release()

	var fare int64
	err = s.txr.WithinTx(ctx, func(st repository.Stores) error {
		// Re-read under the lock: the rider may have tapped off since the
		// trip list was taken.
		fresh, err := st.Trips.GetActiveByRiderID(ctx, trip.RiderID)
		if err != nil {
			return err
		}
		if fresh == nil || fresh.ID != trip.ID {
			return repository.ErrTripNotActive
		}

		tapOnStop, err := s.routeStop(ctx, st, fresh.TapOnRouteStopID)
		if err != nil {
			return err
		}

		fare, err = s.maxFare(ctx, st, tapOnStop)
		if err != nil {
			return err
		}

		_, err = s.settleTrip(ctx, st, fresh, fare, domain.TripStatusAutoCompleted, time.Now())
		if err != nil {
			return err
		}

		trip.Status = fresh.Status
		return nil
	})
	if err != nil {
		return 0, err
	}

	return fare, nil
}

// settleTrip debits the rider, appends the RidePayment ledger entry and
// closes the trip. The three writes share the surrounding transaction.
func (s *SettlementService) settleTrip(
	ctx context.Context,
	st repository.Stores,
	trip *domain.Trip,
	fareCents int64,
	status domain.TripStatus,
	now time.Time,
) (int64, error) {
	balance, err := st.Riders.AdjustBalance(ctx, trip.RiderID, -fareCents)
	if err != nil {
		return 0, err
	}

	entry := &domain.LedgerEntry{
		ID:            uuid.New().String(),
		RiderID:       trip.RiderID,
		AmountCents:   -fareCents,
		Type:          domain.EntryTypeRidePayment,
		Timestamp:     now,
		RelatedTripID: trip.ID,
	}
	if err := st.Ledger.Append(ctx, entry); err != nil {
		return 0, err
	}

	if err := st.Trips.Close(ctx, trip.ID, status); err != nil {
		return 0, err
	}
	trip.Status = status

	return balance, nil
}

// maxFare computes the maximum fare on the tap-on stop's route: the fare to
// the route's terminal stop (highest stop order).
func (s *SettlementService) maxFare(ctx context.Context, st repository.Stores, tapOnStop *domain.RouteStop) (int64, error) {
	route, err := s.route(ctx, st, tapOnStop.RouteID)
	if err != nil {
		return 0, err
	}

	terminal, err := st.Routes.GetTerminalStop(ctx, tapOnStop.RouteID)
	if err != nil {
		return 0, err
	}

	return CalculateFare(route.BaseFareCents, route.PricePerKmCents,
		TripDistance(tapOnStop.DistanceKm, terminal.DistanceKm)), nil
}

// openTrip creates a new ACTIVE trip for the rider.
func (s *SettlementService) openTrip(
	ctx context.Context,
	st repository.Stores,
	riderID, shuttleID, routeStopID string,
	now time.Time,
) (*domain.Trip, error) {
	trip := &domain.Trip{
		ID:               uuid.New().String(),
		RiderID:          riderID,
		ShuttleID:        shuttleID,
		TapOnRouteStopID: routeStopID,
		TapOnTime:        now,
		Status:           domain.TripStatusActive,
	}

	if err := st.Trips.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// lockRider serializes settlement for one rider across sessions. Returns a
// release function; with no lock store configured it is a no-op.
func (s *SettlementService) lockRider(ctx context.Context, riderID string) (func(), error) {
	if s.lockStore == nil {
		return func() {}, nil
	}

	locked, err := s.lockStore.AcquireRiderLock(ctx, riderID, riderLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrRiderBusy
	}

	return func() {
		_ = s.lockStore.ReleaseRiderLock(ctx, riderID)
	}, nil
}

// routeStop reads a route-stop, consulting the topology cache first.
// Route-stops are immutable, so a cache hit never goes stale.
func (s *SettlementService) routeStop(ctx context.Context, st repository.Stores, id string) (*domain.RouteStop, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRouteStop(ctx, id); err == nil && cached != nil {
			return &domain.RouteStop{
				ID:         cached.ID,
				RouteID:    cached.RouteID,
				StopID:     cached.StopID,
				StopOrder:  cached.StopOrder,
				DistanceKm: cached.DistanceKm,
			}, nil
		}
	}

	rs, err := st.Routes.GetRouteStop(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetRouteStop(ctx, &redis.CachedRouteStop{
			ID:         rs.ID,
			RouteID:    rs.RouteID,
			StopID:     rs.StopID,
			StopOrder:  rs.StopOrder,
			DistanceKm: rs.DistanceKm,
		})
	}

	return rs, nil
}

// route reads a route, consulting the topology cache first.
func (s *SettlementService) route(ctx context.Context, st repository.Stores, id string) (*domain.Route, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRoute(ctx, id); err == nil && cached != nil {
			return &domain.Route{
				ID:              cached.ID,
				Name:            cached.Name,
				BaseFareCents:   cached.BaseFareCents,
				PricePerKmCents: cached.PricePerKmCents,
			}, nil
		}
	}

	route, err := st.Routes.GetRoute(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetRoute(ctx, &redis.CachedRoute{
			ID:              route.ID,
			Name:            route.Name,
			BaseFareCents:   route.BaseFareCents,
			PricePerKmCents: route.PricePerKmCents,
		})
	}

	return route, nil
}
