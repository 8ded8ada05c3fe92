// Package influxdb provides InfluxDB connectivity for Atrio Core.
//
// It wraps the official influxdb-client-go v2 library with the connection
// management pattern used across the infrastructure packages.
//
// # Purpose
//
// Time-series storage for confirmed device-state history: every state
// transition observed by a reconciliation session is recorded as a point,
// so dashboards can chart lock/gate/switch activity per building.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil { ... }
//	defer client.Close()
//
//	client.RecordTransition("b-01", "lock.front_door", device.DomainLock, "unlocked", "locked")
//
// # Thread Safety
//
// All methods are safe for concurrent use. Writes are non-blocking and
// batched; async write errors are delivered via SetOnError.
package influxdb
