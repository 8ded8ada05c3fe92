package homeassistant

import (
	"errors"
	"fmt"
)

// Sentinel errors for the controller client.
var (
	// ErrEntityNotFound is returned when the controller has no entity with
	// the requested ID (HTTP 404).
	ErrEntityNotFound = errors.New("homeassistant: entity not found")

	// ErrUnavailable is returned for connectivity-class failures: transport
	// errors, timeouts, and gateway/tunnel statuses (502, 503, 504).
	ErrUnavailable = errors.New("homeassistant: controller unavailable")
)

// StatusError is returned for any other non-2xx controller response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("homeassistant: unexpected status %d: %s", e.Code, e.Body)
}

// IsNotFound reports whether err represents a missing controller entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}

// IsUnavailable reports whether err represents a connectivity-class failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
