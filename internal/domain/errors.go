package domain

import "errors"

var (
	// ErrInsufficientCapacity: the requested quantity exceeds free capacity
	// at commit time. Nothing was written.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrNotAvailable: a unit assignment lost a race or the unit is not in
	// the expected state for handout.
	ErrNotAvailable = errors.New("equipment not available")

	// ErrInvalidState: the operation is forbidden by the current status of
	// the reservation or unit.
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrNotFound: the referenced reservation, unit or pool row is absent.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCancelled: cancel was called on a cancelled reservation.
	ErrAlreadyCancelled = errors.New("reservation already cancelled")

	// ErrInvalidInput: the request itself is malformed (bad dates, empty
	// line items, unknown equipment type).
	ErrInvalidInput = errors.New("invalid input")
)
