package control

import "errors"

// Domain errors for the control package.
var (
	// ErrNotControllable is returned when an action is invoked on a device
	// without a resolvable entity and commandable domain. This is a
	// configuration failure: no network attempt is made.
	ErrNotControllable = errors.New("control: device is not controllable")

	// ErrUnsupportedAction is returned when the resolved domain has no
	// command semantics for the requested action.
	ErrUnsupportedAction = errors.New("control: action not supported by domain")

	// ErrSessionClosed is returned when an action is invoked after the
	// session was released.
	ErrSessionClosed = errors.New("control: session closed")

	// ErrSessionNotFound is returned by the manager for an unknown session key.
	ErrSessionNotFound = errors.New("control: session not found")
)
