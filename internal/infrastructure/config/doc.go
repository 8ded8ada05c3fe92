// Package config loads and validates Atrio Core configuration.
//
// Configuration is layered: hardcoded defaults, then a YAML file, then
// ATRIO_* environment variables. Secrets (controller token, JWT secret,
// MQTT credentials, InfluxDB token) should come from the environment in
// production deployments.
package config
