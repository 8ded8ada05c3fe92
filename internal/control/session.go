package control

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/atriolabs/atrio-core/internal/device"
	"github.com/atriolabs/atrio-core/internal/homeassistant"
)

// Controller is the subset of the remote control service consumed by the
// engine: one read and one command operation.
type Controller interface {
	ReadState(ctx context.Context, entityID string) (*homeassistant.EntityState, error)
	Invoke(ctx context.Context, domain, command, entityID string, params map[string]any) error
}

// Recorder receives confirmed-state transitions for history recording.
// Implementations must not block.
type Recorder interface {
	RecordTransition(buildingID, entityID string, domain device.Domain, from, to string)
}

// Logger defines the logging interface used by sessions.
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

// Options tunes session timing. Zero values fall back to the defaults in
// withDefaults; polling is enabled unless DisablePolling is set.
type Options struct {
	// PollInterval is the periodic refresh cadence.
	PollInterval time.Duration

	// ThrottleWindow is the minimum gap between executed remote reads.
	// Refresh requests inside the window are dropped, not queued.
	ThrottleWindow time.Duration

	// RefreshSchedule is the aggressive post-command refresh schedule,
	// as offsets from command completion. Physical actuators confirm
	// state asynchronously; a single immediate re-read is often stale.
	RefreshSchedule []time.Duration

	// DisablePolling suppresses the bootstrap read and periodic ticker.
	DisablePolling bool

	// CallTimeout bounds scheduled background reads that have no caller
	// context of their own.
	CallTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = 5 * time.Second
	}
	if o.ThrottleWindow <= 0 {
		o.ThrottleWindow = 300 * time.Millisecond
	}
	if o.RefreshSchedule == nil {
		o.RefreshSchedule = []time.Duration{
			200 * time.Millisecond,
			600 * time.Millisecond,
			1200 * time.Millisecond,
		}
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = 10 * time.Second
	}
	return o
}

// Session reconciles one device's client-visible state with the remote
// controller. It tracks two independent pieces of state: the confirmed
// state (last value fetched from the controller) and the optimistic state
// (the in-flight command target).
//
// A session is created by Manager.Acquire and torn down by Release; it is
// never persisted. All methods are safe for concurrent use.
type Session struct {
	deviceID   string
	buildingID string
	target     device.ControlTarget

	ctrl     Controller
	clock    Clock
	recorder Recorder
	logger   Logger
	opts     Options

	onUpdate func(ReadModel)

	mu         sync.Mutex
	live       bool
	confirmed  *homeassistant.EntityState
	optimistic string
	loading    bool
	lastErr    error
	connected  bool
	// entityMissing is sticky: once the controller reports the entity
	// absent, no further reads are issued for this session's lifetime.
	// This prevents polling storms against devices that were removed or
	// mis-registered upstream.
	entityMissing bool
	// inProgress suppresses periodic polls while a command is outstanding,
	// so a stale read cannot race the just-issued write.
	inProgress bool
	generation uint64
	lastReadAt time.Time

	ticker  Ticker
	done    chan struct{}
	pending []Timer
}

// newSession constructs a session; the Manager is the only caller.
func newSession(buildingID string, rec *device.RawDevice, ctrl Controller, clock Clock,
	recorder Recorder, logger Logger, onUpdate func(ReadModel), opts Options) *Session {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Session{
		deviceID:   rec.DeviceID,
		buildingID: buildingID,
		target:     device.Resolve(rec),
		ctrl:       ctrl,
		clock:      clock,
		recorder:   recorder,
		logger:     logger,
		onUpdate:   onUpdate,
		opts:       opts.withDefaults(),
		live:       true,
		done:       make(chan struct{}),
	}
}

// start bootstraps the connection: an immediate refresh if the device has a
// resolvable entity and polling is enabled, then the periodic ticker.
func (s *Session) start() {
	if s.target.EntityID == "" || s.opts.DisablePolling {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.CallTimeout)
		defer cancel()
		//nolint:errcheck // bootstrap read failures surface on the read model
		s.Refresh(ctx)
	}()

	s.mu.Lock()
	s.ticker = s.clock.NewTicker(s.opts.PollInterval)
	ticker := s.ticker
	s.mu.Unlock()

	go func() {
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C():
				s.mu.Lock()
				skip := !s.live || s.inProgress
				s.mu.Unlock()
				if skip {
					continue
				}
				ctx, cancel := context.WithTimeout(context.Background(), s.opts.CallTimeout)
				//nolint:errcheck // poll failures surface on the read model
				s.Refresh(ctx)
				cancel()
			}
		}
	}()
}

// Close tears the session down: the periodic ticker and any pending
// aggressive-refresh timers are stopped, and in-flight results arriving
// afterwards are discarded rather than applied.
func (s *Session) Close() {
	s.mu.Lock()
	if !s.live {
		s.mu.Unlock()
		return
	}
	s.live = false
	if s.ticker != nil {
		s.ticker.Stop()
	}
	for _, t := range s.pending {
		t.Stop()
	}
	s.pending = nil
	s.mu.Unlock()

	close(s.done)
}

// ReadModel returns the current consumer-facing view of the session.
func (s *Session) ReadModel() ReadModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readModelLocked()
}

func (s *Session) readModelLocked() ReadModel {
	m := ReadModel{
		DeviceID:        s.deviceID,
		EntityID:        s.target.EntityID,
		Domain:          s.target.Domain,
		IsControllable:  s.target.Controllable(),
		OptimisticState: s.optimistic,
		IsLoading:       s.loading,
		IsConnected:     s.connected,
		EntityMissing:   s.entityMissing,
	}
	if s.confirmed != nil {
		m.ConfirmedState = s.confirmed.State
		if !s.confirmed.LastChanged.IsZero() {
			lc := s.confirmed.LastChanged
			m.LastChanged = &lc
		}
	}
	if s.lastErr != nil {
		m.Error = s.lastErr.Error()
	}
	m.deriveProjections()
	return m
}

// notify pushes the current read model to the update listener. Must be
// called without holding mu.
func (s *Session) notify() {
	if s.onUpdate == nil {
		return
	}
	s.mu.Lock()
	if !s.live {
		s.mu.Unlock()
		return
	}
	m := s.readModelLocked()
	s.mu.Unlock()
	s.onUpdate(m)
}

// Refresh fetches the confirmed state from the controller.
//
// The read is throttled: it executes only if the throttle window elapsed
// since the previous executed read; earlier requests are dropped — not
// queued, not merged — and the next periodic tick catches up. If a prior
// read reported the entity missing, the sticky flag suppresses all further
// reads until the session is recreated.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if !s.live {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.target.EntityID == "" {
		s.mu.Unlock()
		return ErrNotControllable
	}
	if s.entityMissing {
		s.mu.Unlock()
		return nil
	}
	now := s.clock.Now()
	if !s.lastReadAt.IsZero() && now.Sub(s.lastReadAt) < s.opts.ThrottleWindow {
		s.mu.Unlock()
		return nil
	}
	s.lastReadAt = now
	entityID := s.target.EntityID
	s.mu.Unlock()

	state, err := s.ctrl.ReadState(ctx, entityID)

	s.mu.Lock()
	if !s.live {
		// Result arrived after teardown; discard.
		s.mu.Unlock()
		return ErrSessionClosed
	}

	switch {
	case err == nil:
		s.applyConfirmedLocked(state)

	case homeassistant.IsNotFound(err):
		// "Not provisioned on the controller" is not a user-facing error
		// condition, unlike "unreachable". Sticky, error stays nil.
		s.connected = false
		s.entityMissing = true
		s.lastErr = nil
		err = nil

	case homeassistant.IsUnavailable(err):
		s.connected = false
		s.lastErr = err

	default:
		s.lastErr = err
	}
	s.mu.Unlock()

	s.notify()
	return err
}

// applyConfirmedLocked installs a freshly confirmed state: connectivity and
// the sticky flag reset, the error clears, and a matching optimistic value
// is reconciled away. Caller holds mu.
func (s *Session) applyConfirmedLocked(state *homeassistant.EntityState) {
	prev := ""
	if s.confirmed != nil {
		prev = s.confirmed.State
	}

	s.confirmed = state
	s.connected = true
	s.entityMissing = false
	s.lastErr = nil

	// Reconciliation completion: the confirmed value matching the
	// optimistic target (case-insensitively) is the sole mechanism that
	// clears the optimistic state. There is no timeout-based clearing.
	if s.optimistic != "" && strings.EqualFold(s.optimistic, state.State) {
		s.optimistic = ""
	}

	if s.recorder != nil && prev != state.State {
		s.recorder.RecordTransition(s.buildingID, s.target.EntityID, s.target.Domain, prev, state.State)
	}
}

// Command actions. Each sets the optimistic target before the remote call
// resolves, and reverts it if the call fails.

// Lock issues the lock command.
func (s *Session) Lock(ctx context.Context) error {
	return s.execute(ctx, device.ActionLock)
}

// Unlock issues the unlock command.
func (s *Session) Unlock(ctx context.Context) error {
	return s.execute(ctx, device.ActionUnlock)
}

// Open issues the open command.
func (s *Session) Open(ctx context.Context) error {
	return s.execute(ctx, device.ActionOpen)
}

// CloseCover issues the close command. Named to avoid colliding with the
// session's own Close (teardown).
func (s *Session) CloseCover(ctx context.Context) error {
	return s.execute(ctx, device.ActionClose)
}

// TurnOn issues the turn-on command.
func (s *Session) TurnOn(ctx context.Context) error {
	return s.execute(ctx, actionTurnOn)
}

// TurnOff issues the turn-off command.
func (s *Session) TurnOff(ctx context.Context) error {
	return s.execute(ctx, actionTurnOff)
}

// Toggle dispatches on the resolved domain: switch and light flip between
// on and off, cover and motor between open and closed, and lock delegates
// to Unlock or Lock based on the effective state. Any other domain rejects
// as unsupported.
func (s *Session) Toggle(ctx context.Context) error {
	s.mu.Lock()
	if !s.live {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if !s.target.Controllable() {
		s.mu.Unlock()
		return ErrNotControllable
	}
	effective := s.optimistic
	if effective == "" && s.confirmed != nil {
		effective = s.confirmed.State
	}
	domain := s.target.Domain
	s.mu.Unlock()

	switch domain {
	case device.DomainSwitch, device.DomainLight:
		if strings.EqualFold(effective, "on") {
			return s.TurnOff(ctx)
		}
		return s.TurnOn(ctx)

	case device.DomainCover, device.DomainMotor:
		if strings.EqualFold(effective, "open") {
			return s.CloseCover(ctx)
		}
		return s.Open(ctx)

	case device.DomainLock:
		if strings.EqualFold(effective, "locked") {
			return s.Unlock(ctx)
		}
		return s.Lock(ctx)

	default:
		return ErrUnsupportedAction
	}
}

// internal action verbs not exposed as device.Action values.
const (
	actionTurnOn  device.Action = "turn_on"
	actionTurnOff device.Action = "turn_off"
)

// commandFor maps an action to the controller service command and the
// anticipated post-command state for the given domain.
func commandFor(d device.Domain, a device.Action) (command, optimistic string, err error) {
	switch d {
	case device.DomainLock:
		switch a {
		case device.ActionLock:
			return "lock", "locked", nil
		case device.ActionUnlock:
			return "unlock", "unlocked", nil
		}
	case device.DomainCover:
		switch a {
		case device.ActionOpen:
			return "open_cover", "open", nil
		case device.ActionClose:
			return "close_cover", "closed", nil
		}
	case device.DomainMotor:
		switch a {
		case device.ActionOpen:
			return "open", "open", nil
		case device.ActionClose:
			return "close", "closed", nil
		}
	case device.DomainSwitch, device.DomainLight:
		switch a {
		case actionTurnOn:
			return "turn_on", "on", nil
		case actionTurnOff:
			return "turn_off", "off", nil
		}
	}
	return "", "", ErrUnsupportedAction
}

// execute runs one command: optimistic state and the in-progress flag are
// set before the remote call; on success the aggressive refresh schedule
// is armed; on failure the optimistic value reverts and the error is both
// recorded on the read model and returned to the caller.
func (s *Session) execute(ctx context.Context, action device.Action) error {
	s.mu.Lock()
	if !s.live {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if !s.target.Controllable() {
		s.mu.Unlock()
		return ErrNotControllable
	}

	command, optimistic, err := commandFor(s.target.Domain, action)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.lastErr = nil
	s.loading = true
	s.inProgress = true
	s.generation++
	gen := s.generation
	s.optimistic = optimistic
	entityID := s.target.EntityID
	domain := string(s.target.Domain)
	s.mu.Unlock()

	s.notify()

	invokeErr := s.ctrl.Invoke(ctx, domain, command, entityID, nil)

	s.mu.Lock()
	if !s.live {
		s.mu.Unlock()
		return ErrSessionClosed
	}

	// A newer command superseded this one while its call was in flight:
	// its outcome must not disturb the newer command's flags, optimistic
	// value, or refresh schedule.
	if gen != s.generation {
		s.mu.Unlock()
		return invokeErr
	}

	s.loading = false
	s.inProgress = false

	if invokeErr != nil {
		// Revert to unconfirmed; the caller gets the error for UI feedback.
		s.optimistic = ""
		s.lastErr = invokeErr
		s.mu.Unlock()
		s.notify()
		return invokeErr
	}

	s.scheduleRefreshesLocked(gen)
	s.mu.Unlock()

	s.notify()
	return nil
}

// scheduleRefreshesLocked arms the post-command refresh schedule. Each
// firing is skipped if a newer command re-set the in-progress flag in the
// interim. Caller holds mu.
func (s *Session) scheduleRefreshesLocked(gen uint64) {
	timers := make([]Timer, 0, len(s.opts.RefreshSchedule))
	for _, delay := range s.opts.RefreshSchedule {
		timers = append(timers, s.clock.AfterFunc(delay, func() {
			s.aggressiveRefresh(gen)
		}))
	}
	// Superseded timers from an earlier command either fired already or
	// will be discarded by the generation check; only the current set
	// needs stopping at teardown.
	s.pending = timers
}

func (s *Session) aggressiveRefresh(gen uint64) {
	s.mu.Lock()
	skip := !s.live || s.inProgress || s.generation != gen
	s.mu.Unlock()
	if skip {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.CallTimeout)
	defer cancel()
	if err := s.Refresh(ctx); err != nil {
		s.logger.Debug("post-command refresh failed",
			"entity", s.target.EntityID, "error", err)
	}
}
