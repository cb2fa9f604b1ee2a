package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	// TripStatusActive is an open trip awaiting a tap-off.
	TripStatusActive TripStatus = "ACTIVE"
	// TripStatusCompleted is a trip closed by a normal tap-off.
	TripStatusCompleted TripStatus = "COMPLETED"
	// TripStatusAutoCompleted is a trip force-settled at the maximum fare
	// (mismatched-route re-tap or end of shift).
	TripStatusAutoCompleted TripStatus = "AUTO_COMPLETED"
)

// Trip records a rider's tap-on. At most one trip per rider may be ACTIVE at
// any instant; a trip is never mutated after leaving ACTIVE.
type Trip struct {
	ID               string
	RiderID          string
	ShuttleID        string
	TapOnRouteStopID string
	TapOnTime        time.Time
	Status           TripStatus
}
