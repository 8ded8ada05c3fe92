package device

import (
	"context"
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Snapshot.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ChangeListener is notified after a record is applied or removed.
// buildingID and deviceID identify the record; record is nil on removal.
// Listeners run on the caller's goroutine and must not block.
type ChangeListener func(buildingID, deviceID string, record *RawDevice)

// Snapshot is the live, append/overwrite collection of raw device records
// per building. Records arrive by push from the backend registry store;
// this layer never mutates them beyond filling defaults.
//
// An optional Repository provides write-through persistence so restarts
// resume from the last pushed snapshot.
//
// All public methods are thread-safe.
type Snapshot struct {
	mu        sync.RWMutex
	buildings map[string]map[string]*RawDevice

	repo      Repository // optional
	listeners []ChangeListener
	logger    Logger
}

// NewSnapshot creates an empty snapshot store.
// A nil repository disables persistence.
func NewSnapshot(repo Repository) *Snapshot {
	return &Snapshot{
		buildings: make(map[string]map[string]*RawDevice),
		repo:      repo,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the snapshot store.
func (s *Snapshot) SetLogger(logger Logger) {
	s.logger = logger
}

// OnChange registers a listener for record changes. Must be called before
// the snapshot starts receiving pushes.
func (s *Snapshot) OnChange(fn ChangeListener) {
	s.listeners = append(s.listeners, fn)
}

// Restore reloads all persisted records into memory.
// This should be called on application startup, before ingest begins.
func (s *Snapshot) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	buildings, err := s.repo.Buildings(ctx)
	if err != nil {
		return fmt.Errorf("loading building list: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	s.buildings = make(map[string]map[string]*RawDevice, len(buildings))
	for _, b := range buildings {
		records, err := s.repo.ListByBuilding(ctx, b)
		if err != nil {
			return fmt.Errorf("loading snapshot for building %s: %w", b, err)
		}
		devices := make(map[string]*RawDevice, len(records))
		for i := range records {
			devices[records[i].DeviceID] = records[i].DeepCopy()
		}
		s.buildings[b] = devices
		total += len(records)
	}

	s.logger.Info("device snapshot restored", "buildings", len(buildings), "devices", total)
	return nil
}

// Apply inserts or overwrites a pushed record. The record is normalized
// and deep-copied before storage; persistence failures are logged but do
// not reject the push (memory stays authoritative for the live view).
func (s *Snapshot) Apply(ctx context.Context, buildingID string, record *RawDevice) error {
	if record == nil || record.DeviceID == "" {
		return ErrInvalidRecord
	}

	stored := record.DeepCopy()
	stored.Normalize()

	s.mu.Lock()
	devices, ok := s.buildings[buildingID]
	if !ok {
		devices = make(map[string]*RawDevice)
		s.buildings[buildingID] = devices
	}
	devices[stored.DeviceID] = stored
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.Upsert(ctx, buildingID, stored); err != nil {
			s.logger.Error("persisting device snapshot",
				"building", buildingID, "device", stored.DeviceID, "error", err)
		}
	}

	s.notify(buildingID, stored.DeviceID, stored.DeepCopy())
	return nil
}

// Remove deletes a record, typically on an empty retained payload.
// Removing an unknown record is a no-op.
func (s *Snapshot) Remove(ctx context.Context, buildingID, deviceID string) {
	s.mu.Lock()
	removed := false
	if devices, ok := s.buildings[buildingID]; ok {
		if _, exists := devices[deviceID]; exists {
			delete(devices, deviceID)
			removed = true
		}
	}
	s.mu.Unlock()

	if !removed {
		return
	}

	if s.repo != nil {
		if err := s.repo.Delete(ctx, buildingID, deviceID); err != nil {
			s.logger.Error("removing persisted snapshot",
				"building", buildingID, "device", deviceID, "error", err)
		}
	}

	s.notify(buildingID, deviceID, nil)
}

// Get retrieves a record by building and device ID.
// The returned record is a deep copy; callers can safely modify it.
func (s *Snapshot) Get(buildingID, deviceID string) (*RawDevice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	devices, ok := s.buildings[buildingID]
	if !ok {
		return nil, ErrBuildingNotFound
	}
	d, ok := devices[deviceID]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return d.DeepCopy(), nil
}

// ListByBuilding retrieves all records for a building.
// The returned records are deep copies; an unknown building yields an
// empty slice, not an error, matching the "no devices yet" push model.
func (s *Snapshot) ListByBuilding(buildingID string) []RawDevice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	devices := s.buildings[buildingID]
	out := make([]RawDevice, 0, len(devices))
	for _, d := range devices {
		out = append(out, *d.DeepCopy())
	}
	return out
}

// Count returns the number of records currently held across all buildings.
func (s *Snapshot) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, devices := range s.buildings {
		n += len(devices)
	}
	return n
}

func (s *Snapshot) notify(buildingID, deviceID string, record *RawDevice) {
	for _, fn := range s.listeners {
		fn(buildingID, deviceID, record)
	}
}
