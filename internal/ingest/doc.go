// Package ingest wires the MQTT registry feed into the device snapshot.
//
// The backend registry store publishes one retained JSON record per device
// under atrio/{buildingId}/registry/device/{deviceId}. On connect the
// broker replays every retained record, so subscribing once is enough to
// rebuild the full inventory; afterwards the same subscription delivers
// live updates. An empty retained payload removes the device.
//
// Malformed payloads are logged and dropped. A bad record must never take
// down the feed for the rest of the fleet.
package ingest
