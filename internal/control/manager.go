package control

import (
	"sync"

	"github.com/atriolabs/atrio-core/internal/device"
)

// Manager owns the reconciliation sessions, one per controllable device,
// keyed by entity ID (device ID when no entity is bound, so sessions for
// unresolvable devices still expose their rejecting read model).
//
// Sessions are reference-counted: a consumer acquires a session when it
// starts controlling a device and releases it when done; the session is
// torn down when the last consumer releases it.
type Manager struct {
	ctrl     Controller
	clock    Clock
	recorder Recorder
	logger   Logger
	opts     Options

	// onUpdate receives every session read-model change, for streaming to
	// UI consumers. Set before the first Acquire.
	onUpdate func(key string, m ReadModel)

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	session *Session
	refs    int
}

// NewManager creates a session manager. recorder may be nil to disable
// history recording.
func NewManager(ctrl Controller, clock Clock, recorder Recorder, logger Logger, opts Options) *Manager {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Manager{
		ctrl:     ctrl,
		clock:    clock,
		recorder: recorder,
		logger:   logger,
		opts:     opts,
		sessions: make(map[string]*entry),
	}
}

// SetOnUpdate registers the read-model change listener.
// Must be called before the first Acquire.
func (m *Manager) SetOnUpdate(fn func(key string, model ReadModel)) {
	m.onUpdate = fn
}

// Key returns the session key for a record: the resolved entity ID, or the
// device ID when no entity is bound.
func Key(rec *device.RawDevice) string {
	if target := device.Resolve(rec); target.EntityID != "" {
		return target.EntityID
	}
	return rec.DeviceID
}

// Acquire returns the session for a device, creating and bootstrapping it
// on first acquisition. Subsequent acquisitions share the session and bump
// its reference count.
func (m *Manager) Acquire(buildingID string, rec *device.RawDevice) *Session {
	key := Key(rec)

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[key]; ok {
		e.refs++
		return e.session
	}

	var onUpdate func(ReadModel)
	if m.onUpdate != nil {
		fn := m.onUpdate
		onUpdate = func(model ReadModel) { fn(key, model) }
	}

	s := newSession(buildingID, rec, m.ctrl, m.clock, m.recorder,
		m.logger, onUpdate, m.opts)
	m.sessions[key] = &entry{session: s, refs: 1}
	s.start()

	m.logger.Debug("control session created", "key", key, "entity", s.target.EntityID)
	return s
}

// Get returns an existing session without affecting its reference count.
func (m *Manager) Get(key string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e.session, nil
}

// Release drops one reference; the last release closes the session. A
// recreated session starts clean, which is the only way to clear the
// sticky entity-missing flag.
func (m *Manager) Release(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[key]
	if !ok {
		return ErrSessionNotFound
	}

	e.refs--
	if e.refs > 0 {
		return nil
	}

	delete(m.sessions, key)
	e.session.Close()
	m.logger.Debug("control session closed", "key", key)
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// CloseAll tears down every session, for shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range sessions {
		e.session.Close()
	}
}
