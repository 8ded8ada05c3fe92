// Package auth defines caller identities for the device control layer.
//
// Atrio does not run its own identity provider: users authenticate against
// an external IdP, which issues HS256-signed JWTs carrying the caller's
// role and apartment membership. This package validates those tokens and
// exposes the resulting identity to the API layer and the device access
// filter.
package auth
