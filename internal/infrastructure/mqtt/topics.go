package mqtt

import (
	"fmt"
	"strings"
)

// Topic layout for the Atrio MQTT surface.
//
// The backend registry store pushes raw device records as retained JSON
// messages, one topic per device:
//
//	atrio/{buildingId}/registry/device/{deviceId}
//
// An empty retained payload removes the device. System status uses
// atrio/system/status for LWT-based liveness.
const (
	// TopicPrefix is the base for all Atrio topics.
	TopicPrefix = "atrio"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "atrio/system"
)

// Topics provides builders for Atrio MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
type Topics struct{}

// RegistryDevice returns the retained-record topic for one device.
//
// Example: atrio/b-042/registry/device/front-door-lock
func (Topics) RegistryDevice(buildingID, deviceID string) string {
	return fmt.Sprintf("%s/%s/registry/device/%s", TopicPrefix, buildingID, deviceID)
}

// RegistryDevices returns the subscription filter for one building's records.
//
// Example: atrio/b-042/registry/device/+
func (Topics) RegistryDevices(buildingID string) string {
	return fmt.Sprintf("%s/%s/registry/device/+", TopicPrefix, buildingID)
}

// RegistryAll returns the subscription filter covering every building.
//
// Example: atrio/+/registry/device/+
func (Topics) RegistryAll() string {
	return TopicPrefix + "/+/registry/device/+"
}

// SystemStatus returns the system status topic used for LWT.
//
// Example: atrio/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// ParseRegistryTopic extracts the building and device IDs from a registry
// record topic. ok is false for topics outside the registry hierarchy.
func ParseRegistryTopic(topic string) (buildingID, deviceID string, ok bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 5 {
		return "", "", false
	}
	if parts[0] != TopicPrefix || parts[2] != "registry" || parts[3] != "device" {
		return "", "", false
	}
	if parts[1] == "" || parts[4] == "" {
		return "", "", false
	}
	return parts[1], parts[4], true
}
