// Package control is the reconciliation engine: it issues commands to the
// remote control service and keeps a client-visible state consistent with
// eventually-confirmed server state despite latency, polling, and partial
// failure.
//
// # Model
//
// Each controllable device gets one Session, layered over two independent
// pieces of state:
//
//   - confirmed state: the last value fetched from the controller
//   - optimistic state: the in-flight command target, or empty
//
// A command sets the optimistic value before the remote call resolves, so
// consumers see the anticipated result immediately. The optimistic value
// clears only when a later confirmed read matches it case-insensitively;
// a command failure reverts it.
//
// # Timing
//
// Three schedules run against the injectable Clock:
//
//   - a periodic poll (suppressed while a command is in flight)
//   - a refresh throttle window that drops reads issued too close together
//   - an aggressive post-command schedule, because physical actuators
//     (locks, gates) confirm state asynchronously and a single immediate
//     re-read is often still stale
//
// # Failure taxonomy
//
// Entity-not-found is sticky and silent: polling stops for the session's
// lifetime and no error surfaces. Connectivity failures surface on the
// read model and retry on the next tick. Command failures revert the
// optimistic state and propagate to the caller. Configuration failures
// (no resolvable entity or domain) reject synchronously.
package control
