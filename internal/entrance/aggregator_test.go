package entrance

import (
	"testing"

	"github.com/atriolabs/atrio-core/internal/device"
)

func lockAt(id string, loc device.Location) device.RawDevice {
	return device.RawDevice{
		DeviceID:     id,
		Name:         id,
		Capabilities: []string{"lock"},
		Location:     loc,
	}
}

func motorAt(id string, loc device.Location) device.RawDevice {
	return device.RawDevice{
		DeviceID:     id,
		Name:         id,
		Capabilities: []string{"motor"},
		Location:     loc,
	}
}

func TestAggregatePicksMainLockAndGate(t *testing.T) {
	records := []device.RawDevice{
		// Common-zone lock but not in the entrance room: candidate only.
		lockAt("pool-lock", device.Location{Zone: "common", Room: "pool"}),
		lockAt("front-lock", device.Location{Room: "entrance", IsCommonArea: true}),
		motorAt("garage-gate", device.Location{RoomType: "entrance", Zone: "common"}),
		// Proximity scanner at the entrance: candidate, never main.
		{
			DeviceID:     "ble-scanner",
			Name:         "ble-scanner",
			Capabilities: []string{"ble_scanning"},
			Location:     device.Location{Room: "entrance"},
		},
	}

	q := Aggregate(records)

	if q.MainLock == nil || q.MainLock.DeviceID != "front-lock" {
		t.Errorf("MainLock = %v, want front-lock", q.MainLock)
	}
	if q.MainGate == nil || q.MainGate.DeviceID != "garage-gate" {
		t.Errorf("MainGate = %v, want garage-gate", q.MainGate)
	}
	if len(q.Candidates) != 4 {
		t.Errorf("candidates = %d, want 4", len(q.Candidates))
	}
}

func TestAggregateFirstMatchWins(t *testing.T) {
	records := []device.RawDevice{
		lockAt("lock-a", device.Location{Room: "entrance"}),
		lockAt("lock-b", device.Location{Room: "entrance"}),
	}

	q := Aggregate(records)
	if q.MainLock == nil || q.MainLock.DeviceID != "lock-a" {
		t.Errorf("MainLock = %v, want first entrance lock", q.MainLock)
	}
}

func TestAggregateExcludesNonEntranceAndNonControl(t *testing.T) {
	records := []device.RawDevice{
		// Private-apartment lock: not at the entrance.
		lockAt("apt-lock", device.Location{ApartmentID: "apt-1", Zone: "tower-a"}),
		// Common-area light: wrong category.
		{
			DeviceID:     "lobby-light",
			Name:         "lobby light",
			Capabilities: []string{"brightness"},
			Location:     device.Location{IsCommonArea: true},
		},
	}

	q := Aggregate(records)
	if len(q.Candidates) != 0 {
		t.Errorf("candidates = %v, want none", q.Candidates)
	}
	if q.MainLock != nil || q.MainGate != nil {
		t.Errorf("main devices = (%v, %v), want nil", q.MainLock, q.MainGate)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	q := Aggregate(nil)
	if q.Candidates == nil {
		t.Error("Candidates = nil, want empty slice for JSON stability")
	}
	if len(q.Candidates) != 0 || q.MainLock != nil || q.MainGate != nil {
		t.Errorf("Aggregate(nil) = %+v, want empty quick view", q)
	}
}
