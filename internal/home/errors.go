package home

import "errors"

// Domain errors for the home package.
//
// Errors returned by Home wrap one of these with the room or device
// name, so they can be checked with errors.Is.
var (
	// ErrRoomExists is returned when adding a room whose name is taken.
	ErrRoomExists = errors.New("home: room with the same name already exists")

	// ErrRoomNotFound is returned when a room does not exist.
	ErrRoomNotFound = errors.New("home: room does not exist")

	// ErrDeviceExists is returned when a room already holds a device with that name.
	ErrDeviceExists = errors.New("home: device with the same name already exists in room")

	// ErrDeviceNotFound is returned when a room holds no device with that name.
	ErrDeviceNotFound = errors.New("home: device does not exist in room")

	// ErrInvalidName is returned for empty room names.
	ErrInvalidName = errors.New("home: invalid name")

	// ErrInvalidFilter is returned when a provider filter cannot be decoded.
	ErrInvalidFilter = errors.New("home: invalid provider filter")
)
