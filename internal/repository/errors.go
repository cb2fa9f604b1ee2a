package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrTripNotActive is returned when closing a trip that is not ACTIVE.
	ErrTripNotActive = errors.New("trip is not active")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("entity already exists")
)
