package ingest

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/atriolabs/atrio-core/internal/device"
	"github.com/atriolabs/atrio-core/internal/infrastructure/mqtt"
)

// Logger is the minimal logging interface the ingest layer needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Subscriber is the slice of the MQTT client the ingest layer uses.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Registry consumes retained device records from the broker and applies
// them to the in-memory snapshot.
type Registry struct {
	sub    Subscriber
	snap   *device.Snapshot
	qos    byte
	logger Logger
}

// NewRegistry creates a registry ingestor. qos is the subscription QoS
// for the registry topics.
func NewRegistry(sub Subscriber, snap *device.Snapshot, qos byte) *Registry {
	return &Registry{
		sub:    sub,
		snap:   snap,
		qos:    qos,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger used for ingest diagnostics.
func (r *Registry) SetLogger(logger Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Start subscribes to the registry feed for every building. The broker
// replays retained records immediately, repopulating the snapshot.
func (r *Registry) Start() error {
	return r.sub.Subscribe(mqtt.Topics{}.RegistryAll(), r.qos, r.handle)
}

func (r *Registry) handle(topic string, payload []byte) error {
	buildingID, deviceID, ok := mqtt.ParseRegistryTopic(topic)
	if !ok {
		r.logger.Debug("ignoring non-registry topic", "topic", topic)
		return nil
	}

	ctx := context.Background()

	// An empty retained payload is the broker-native delete.
	if len(bytes.TrimSpace(payload)) == 0 {
		r.snap.Remove(ctx, buildingID, deviceID)
		r.logger.Info("device removed from registry",
			"building", buildingID, "device", deviceID)
		return nil
	}

	var record device.RawDevice
	if err := json.Unmarshal(payload, &record); err != nil {
		r.logger.Warn("dropping malformed registry record",
			"building", buildingID, "device", deviceID, "error", err)
		return nil
	}

	// The topic is authoritative for identity; payloads may omit or
	// disagree on the device ID.
	record.DeviceID = deviceID

	if err := r.snap.Apply(ctx, buildingID, &record); err != nil {
		r.logger.Warn("dropping registry record",
			"building", buildingID, "device", deviceID, "error", err)
		return nil
	}

	r.logger.Debug("registry record applied",
		"building", buildingID, "device", deviceID)
	return nil
}
