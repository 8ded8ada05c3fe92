// Package homeassistant is the client for the remote control service.
//
// The controller exposes a Home Assistant-compatible REST API; the control
// engine consumes exactly two operations from it:
//
//   - ReadState: GET /api/states/{entityId}
//   - Invoke:    POST /api/services/{domain}/{command}
//
// The important part of this package is its error taxonomy, which the
// reconciliation engine depends on:
//
//   - ErrEntityNotFound: the entity is not provisioned on the controller.
//     Sticky from the engine's point of view, never user-facing.
//   - ErrUnavailable: gateway/tunnel down, timeout, or transport failure.
//     Transient; retried on the next natural poll tick.
//   - StatusError: any other non-2xx, carrying the status code.
package homeassistant
