// Package api provides the HTTP REST API and WebSocket server for Atrio Core.
//
// It exposes the device inventory (raw and categorized), the common-entrance
// quick view, and the per-device control sessions to user interfaces (resident
// mobile apps, concierge dashboards).
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Authentication is bearer JWT issued by the external identity provider;
// the server validates tokens locally with the shared secret and scopes
// device reads to what the caller's role and apartment grants allow.
//
// Thread Safety: All methods are safe for concurrent use from multiple
// goroutines.
package api
