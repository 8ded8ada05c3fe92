package ingest

import (
	"testing"

	"github.com/atriolabs/atrio-core/internal/device"
	"github.com/atriolabs/atrio-core/internal/infrastructure/mqtt"
)

type fakeSubscriber struct {
	topic   string
	qos     byte
	handler mqtt.MessageHandler
}

func (f *fakeSubscriber) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	f.topic = topic
	f.qos = qos
	f.handler = handler
	return nil
}

func newTestRegistry(t *testing.T) (*Registry, *fakeSubscriber, *device.Snapshot) {
	t.Helper()
	snap := device.NewSnapshot(nil)
	sub := &fakeSubscriber{}
	reg := NewRegistry(sub, snap, 1)
	if err := reg.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return reg, sub, snap
}

func TestRegistrySubscribesToAllBuildings(t *testing.T) {
	_, sub, _ := newTestRegistry(t)

	if sub.topic != "atrio/+/registry/device/+" {
		t.Errorf("subscribed topic = %q, want %q", sub.topic, "atrio/+/registry/device/+")
	}
	if sub.qos != 1 {
		t.Errorf("qos = %d, want 1", sub.qos)
	}
	if sub.handler == nil {
		t.Fatal("handler not registered")
	}
}

func TestRegistryAppliesRecord(t *testing.T) {
	_, sub, snap := newTestRegistry(t)

	payload := []byte(`{"name":"Front Door","capabilities":["lock_control"],"status":"online"}`)
	if err := sub.handler("atrio/b-1/registry/device/front-door", payload); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	got, err := snap.Get("b-1", "front-door")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Front Door" {
		t.Errorf("name = %q, want %q", got.Name, "Front Door")
	}
	if got.DeviceID != "front-door" {
		t.Errorf("deviceId = %q, want topic-derived %q", got.DeviceID, "front-door")
	}
}

func TestRegistryTopicOverridesPayloadID(t *testing.T) {
	_, sub, snap := newTestRegistry(t)

	payload := []byte(`{"deviceId":"imposter","name":"Lamp"}`)
	if err := sub.handler("atrio/b-1/registry/device/lamp-3", payload); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if _, err := snap.Get("b-1", "lamp-3"); err != nil {
		t.Errorf("record not stored under topic device ID: %v", err)
	}
	if _, err := snap.Get("b-1", "imposter"); err == nil {
		t.Error("record stored under payload device ID, want topic ID")
	}
}

func TestRegistryEmptyPayloadRemoves(t *testing.T) {
	_, sub, snap := newTestRegistry(t)

	topic := "atrio/b-1/registry/device/old-sensor"
	if err := sub.handler(topic, []byte(`{"name":"Old Sensor"}`)); err != nil {
		t.Fatalf("apply error = %v", err)
	}
	if err := sub.handler(topic, nil); err != nil {
		t.Fatalf("remove error = %v", err)
	}

	if _, err := snap.Get("b-1", "old-sensor"); err == nil {
		t.Error("device still present after empty retained payload")
	}
}

func TestRegistryDropsMalformedPayload(t *testing.T) {
	_, sub, snap := newTestRegistry(t)

	if err := sub.handler("atrio/b-1/registry/device/bad", []byte(`{not json`)); err != nil {
		t.Fatalf("handler error = %v, want nil (drop, not fail)", err)
	}
	if snap.Count() != 0 {
		t.Errorf("snapshot count = %d after malformed payload, want 0", snap.Count())
	}
}

func TestRegistryIgnoresForeignTopics(t *testing.T) {
	_, sub, snap := newTestRegistry(t)

	if err := sub.handler("atrio/system/status", []byte(`online`)); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if snap.Count() != 0 {
		t.Errorf("snapshot count = %d, want 0", snap.Count())
	}
}
