package service

import "errors"

var (
	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidRouteStopID is returned when route-stop ID is empty.
	ErrInvalidRouteStopID = errors.New("invalid route stop id")

	// ErrInvalidShuttleID is returned when shuttle ID is empty.
	ErrInvalidShuttleID = errors.New("invalid shuttle id")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrRiderBusy is returned when another settlement for the same rider is
	// in flight. The tap left no state behind and may be retried.
	ErrRiderBusy = errors.New("another operation is in progress for this rider")

	// ErrInvalidAmount is returned when a monetary amount is not acceptable
	// for the operation (non-positive top-up, zero adjustment).
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrMissingField is returned when a required field is empty.
	ErrMissingField = errors.New("required field is empty")
)
