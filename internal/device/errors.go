package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist in the snapshot.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrBuildingNotFound is returned when no snapshot exists for a building.
	ErrBuildingNotFound = errors.New("device: building not found")

	// ErrInvalidRecord is returned when a pushed record is missing its identity.
	ErrInvalidRecord = errors.New("device: invalid record")
)
