package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"shuttle/internal/domain"
	"shuttle/internal/repository"
	"shuttle/internal/service"
)

// ──────────────────────────────────────────────
// 6. END-OF-SHIFT BULK SETTLEMENT
// ──────────────────────────────────────────────

type shiftFixture struct {
	*settlementFixture
	shuttles *MockShuttleRepository
	shiftSvc *service.ShiftService
}

func newShiftFixture() *shiftFixture {
	base := newSettlementFixture()

	shuttles := NewMockShuttleRepository()
	shuttles.AddShuttle(&domain.Shuttle{ID: testShuttleID, Name: "Shuttle 1", Capacity: 20})

	return &shiftFixture{
		settlementFixture: base,
		shuttles:          shuttles,
		shiftSvc:          service.NewShiftService(base.store.Trips, shuttles, base.svc),
	}
}

func TestEndShift_SettlesEveryActiveTripAtMaxFare(t *testing.T) {
	t.Parallel()

	f := newShiftFixture()
	f.addRider("rider-1", 500)
	f.addRider("rider-2", 500)

	f.tap(t, "rider-1", loopStopA) // max fare from 0.0 km: 103
	f.tap(t, "rider-2", loopStopB) // max fare from 0.8 km: 50 + 1.3*25 = 82.5 → 83

	results, err := f.shiftSvc.EndShift(context.Background(), testShuttleID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(results))
	}

	fares := map[string]int64{}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("trip %s: unexpected settlement error: %v", r.TripID, r.Err)
		}
		fares[r.RiderID] = r.FareCents
	}

	if fares["rider-1"] != 103 {
		t.Errorf("expected rider-1 charged 103, got %d", fares["rider-1"])
	}
	if fares["rider-2"] != 83 {
		t.Errorf("expected rider-2 charged 83, got %d", fares["rider-2"])
	}

	if f.store.Riders.Balance("rider-1") != 397 {
		t.Errorf("expected rider-1 balance 397, got %d", f.store.Riders.Balance("rider-1"))
	}
	if f.store.Riders.Balance("rider-2") != 417 {
		t.Errorf("expected rider-2 balance 417, got %d", f.store.Riders.Balance("rider-2"))
	}

	if f.store.Trips.CountActiveTripsForRider("rider-1") != 0 ||
		f.store.Trips.CountActiveTripsForRider("rider-2") != 0 {
		t.Error("expected no active trips after end of shift")
	}
}

func TestEndShift_ClosedTripsAreAutoCompleted(t *testing.T) {
	t.Parallel()

	f := newShiftFixture()
	f.addRider("rider-1", 500)

	first := f.tap(t, "rider-1", loopStopA)

	_, err := f.shiftSvc.EndShift(context.Background(), testShuttleID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trip := f.store.Trips.GetTrip(first.Trip.ID)
	if trip.Status != domain.TripStatusAutoCompleted {
		t.Errorf("expected status %s, got %s", domain.TripStatusAutoCompleted, trip.Status)
	}
}

func TestEndShift_NoActiveTrips_ReturnsEmptyResult(t *testing.T) {
	t.Parallel()

	f := newShiftFixture()

	results, err := f.shiftSvc.EndShift(context.Background(), testShuttleID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no settlements, got %d", len(results))
	}
}

func TestEndShift_UnknownShuttle_Fails(t *testing.T) {
	t.Parallel()

	f := newShiftFixture()

	_, err := f.shiftSvc.EndShift(context.Background(), "no-such-shuttle")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEndShift_OneFailureDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	f := newShiftFixture()
	f.addRider("rider-1", 500)
	f.addRider("rider-2", 500)

	f.tap(t, "rider-1", loopStopA)
	f.tap(t, "rider-2", loopStopB)

	// rider-1 is mid-settlement elsewhere; their lock cannot be acquired.
	f.lockStore.AcquireRiderLock(context.Background(), "rider-1", time.Minute)

	results, err := f.shiftSvc.EndShift(context.Background(), testShuttleID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	var failed, settled int
	for _, r := range results {
		switch r.RiderID {
		case "rider-1":
			if !errors.Is(r.Err, service.ErrRiderBusy) {
				t.Errorf("expected rider-1 settlement to fail with ErrRiderBusy, got %v", r.Err)
			}
			failed++
		case "rider-2":
			if r.Err != nil {
				t.Errorf("rider-2 settlement should succeed, got %v", r.Err)
			}
			settled++
		}
	}
	if failed != 1 || settled != 1 {
		t.Errorf("expected 1 failure and 1 settlement, got %d/%d", failed, settled)
	}

	// The failed trip stays active for a later retry; the settled one does not.
	if f.store.Trips.CountActiveTripsForRider("rider-1") != 1 {
		t.Error("expected rider-1 trip to remain active")
	}
	if f.store.Trips.CountActiveTripsForRider("rider-2") != 0 {
		t.Error("expected rider-2 trip to be settled")
	}
}

func TestEndShift_TripSettledConcurrently_ReportsNotActive(t *testing.T) {
	t.Parallel()

	f := newShiftFixture()
	f.addRider("rider-1", 500)

	first := f.tap(t, "rider-1", loopStopA)

	// The rider taps off between the trip listing and the settlement.
	trips, _ := f.store.Trips.GetActiveByShuttleID(context.Background(), testShuttleID)
	f.tap(t, "rider-1", loopStopC)

	_, err := f.svc.ForceSettleTrip(context.Background(), trips[0])
	if !errors.Is(err, repository.ErrTripNotActive) {
		t.Fatalf("expected ErrTripNotActive, got %v", err)
	}

	// The normal tap-off stands; no double charge.
	trip := f.store.Trips.GetTrip(first.Trip.ID)
	if trip.Status != domain.TripStatusCompleted {
		t.Errorf("expected status %s, got %s", domain.TripStatusCompleted, trip.Status)
	}
	if f.store.Riders.Balance("rider-1") != 412 {
		t.Errorf("expected balance 412 (single 88 cent charge), got %d", f.store.Riders.Balance("rider-1"))
	}
}
