package control

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/atriolabs/atrio-core/internal/device"
	"github.com/atriolabs/atrio-core/internal/homeassistant"
)

func testManager(ctrl Controller) *Manager {
	return NewManager(ctrl, newFakeClock(), nil, nil, Options{DisablePolling: true})
}

func TestKey(t *testing.T) {
	withEntity := switchDevice()
	if got := Key(withEntity); got != "switch.lamp_1" {
		t.Errorf("Key() = %q, want entity ID", got)
	}

	unbound := &device.RawDevice{DeviceID: "pir-1", Name: "Hallway PIR"}
	if got := Key(unbound); got != "pir-1" {
		t.Errorf("Key() = %q, want device ID fallback", got)
	}
}

func TestAcquireIsRefCounted(t *testing.T) {
	m := testManager(&scriptedController{state: "on"})
	defer m.CloseAll()

	rec := switchDevice()
	s1 := m.Acquire("b-1", rec)
	s2 := m.Acquire("b-1", rec)

	if s1 != s2 {
		t.Fatal("second Acquire returned a different session")
	}
	if m.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", m.Count())
	}

	// First release keeps the session alive.
	if err := m.Release(Key(rec)); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := m.Get(Key(rec)); err != nil {
		t.Fatalf("Get() after first release error = %v", err)
	}

	// Last release tears it down.
	if err := m.Release(Key(rec)); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := m.Get(Key(rec)); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Get() after last release error = %v, want ErrSessionNotFound", err)
	}
	if err := s1.Refresh(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Refresh() on released session error = %v, want ErrSessionClosed", err)
	}
}

func TestReleaseUnknownKey(t *testing.T) {
	m := testManager(&scriptedController{})
	if err := m.Release("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Release() error = %v, want ErrSessionNotFound", err)
	}
}

func TestReacquireClearsStickyMissing(t *testing.T) {
	ctrl := &scriptedController{readErr: homeassistant.ErrEntityNotFound}
	m := testManager(ctrl)
	defer m.CloseAll()

	rec := switchDevice()
	s := m.Acquire("b-1", rec)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if !s.ReadModel().EntityMissing {
		t.Fatal("EntityMissing = false after 404")
	}

	// Release and reacquire: the replacement session starts clean.
	if err := m.Release(Key(rec)); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	ctrl.setState("on")

	s2 := m.Acquire("b-1", rec)
	defer m.Release(Key(rec)) //nolint:errcheck

	if err := s2.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() on new session error = %v", err)
	}
	m2 := s2.ReadModel()
	if m2.EntityMissing {
		t.Error("EntityMissing carried over to recreated session")
	}
	if m2.ConfirmedState != "on" {
		t.Errorf("confirmed = %q, want on", m2.ConfirmedState)
	}
}

func TestOnUpdateReceivesKeyedModels(t *testing.T) {
	ctrl := &scriptedController{state: "on"}
	m := testManager(ctrl)
	defer m.CloseAll()

	var mu sync.Mutex
	updates := make(map[string]int)
	m.SetOnUpdate(func(key string, _ ReadModel) {
		mu.Lock()
		updates[key]++
		mu.Unlock()
	})

	rec := switchDevice()
	s := m.Acquire("b-1", rec)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if updates["switch.lamp_1"] == 0 {
		t.Error("no updates delivered for session key")
	}
}

func TestCloseAll(t *testing.T) {
	m := testManager(&scriptedController{state: "on"})

	s1 := m.Acquire("b-1", switchDevice())
	s2 := m.Acquire("b-1", lockDevice())

	m.CloseAll()
	if m.Count() != 0 {
		t.Errorf("Count() = %d after CloseAll, want 0", m.Count())
	}
	if err := s1.Refresh(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("session 1 still live after CloseAll: %v", err)
	}
	if err := s2.Refresh(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("session 2 still live after CloseAll: %v", err)
	}
}
