package device

import "errors"

// Domain errors for the device package.
var (
	// ErrInvalidState is returned when a state name is not recognised.
	ErrInvalidState = errors.New("device: invalid state")

	// ErrInvalidType is returned when a device kind is not recognised.
	ErrInvalidType = errors.New("device: invalid type")

	// ErrInvalidID is returned when a device is built with an empty id.
	ErrInvalidID = errors.New("device: empty id")
)
