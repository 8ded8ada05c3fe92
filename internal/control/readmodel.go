package control

import (
	"strings"
	"time"

	"github.com/atriolabs/atrio-core/internal/device"
)

// ReadModel is the stable view of a session exposed to UI consumers.
// Errors surface here as data; presentation is the consumer's concern.
type ReadModel struct {
	DeviceID       string        `json:"deviceId"`
	EntityID       string        `json:"entityId,omitempty"`
	Domain         device.Domain `json:"domain,omitempty"`
	IsControllable bool          `json:"isControllable"`

	ConfirmedState  string `json:"confirmedState,omitempty"`
	OptimisticState string `json:"optimisticState,omitempty"`

	IsLoading     bool   `json:"isLoading"`
	IsConnected   bool   `json:"isConnected"`
	EntityMissing bool   `json:"entityMissing"`
	Error         string `json:"error,omitempty"`

	// Convenience projections of the effective state.
	IsOn     bool `json:"isOn"`
	IsOpen   bool `json:"isOpen"`
	IsLocked bool `json:"isLocked"`

	LastChanged *time.Time `json:"lastChanged,omitempty"`
}

// EffectiveState is the state a consumer should display: the optimistic
// prediction while a command awaits confirmation, otherwise the last
// confirmed value.
func (m ReadModel) EffectiveState() string {
	if m.OptimisticState != "" {
		return m.OptimisticState
	}
	return m.ConfirmedState
}

func (m *ReadModel) deriveProjections() {
	effective := m.EffectiveState()
	m.IsOn = strings.EqualFold(effective, "on")
	m.IsOpen = strings.EqualFold(effective, "open")
	m.IsLocked = strings.EqualFold(effective, "locked")
}
