package device

import "strings"

// RawDevice is a device record as pushed by the backend registry store.
// Records are read-only from this layer's point of view: the categorizer,
// resolver, and control engine derive everything from them but never write
// back. Optional fields may be absent in the wire payload; Normalize fills
// safe defaults.
type RawDevice struct {
	// Identity
	DeviceID string `json:"deviceId"`
	Name     string `json:"name"`
	Model    string `json:"model,omitempty"`

	// Declared feature tags, e.g. "lock", "motor", "brightness",
	// "motion_detection", "ble_scanning".
	Capabilities []string `json:"capabilities"`

	Status  Status `json:"status"`
	Digital bool   `json:"digital"`

	Location Location `json:"location"`

	LastKnownState *LastKnownState `json:"lastKnownState,omitempty"`
	Battery        *Battery        `json:"battery,omitempty"`

	Access AccessFlags `json:"access"`

	// Integration metadata. Absence means the device cannot be remotely
	// commanded regardless of capabilities.
	Integration *Integration `json:"integration,omitempty"`
}

// Status is the backend's reported reachability of a device.
type Status string

// Status constants.
const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// Location places a device within a building.
type Location struct {
	ApartmentID  string `json:"apartmentId,omitempty"`
	BuildingID   string `json:"buildingId,omitempty"`
	Room         string `json:"room,omitempty"`
	RoomType     string `json:"roomType,omitempty"`
	Zone         string `json:"zone,omitempty"`
	IsCommonArea bool   `json:"isCommonArea,omitempty"`
}

// LastKnownState carries the backend's last observed device state.
// Lock hardware reports through the nested lock block; everything else
// uses the generic State string (e.g. "OPEN", "on").
type LastKnownState struct {
	State string     `json:"state,omitempty"`
	Lock  *LockState `json:"lock,omitempty"`
}

// LockState is the lock-specific state block. Some backends populate
// Status, others LockState; Locked() checks both.
type LockState struct {
	Status    string `json:"status,omitempty"`
	LockState string `json:"lockState,omitempty"`
}

// Locked reports whether the last known lock state is locked.
func (s *LastKnownState) Locked() bool {
	if s == nil || s.Lock == nil {
		return false
	}
	return strings.EqualFold(s.Lock.Status, "locked") ||
		strings.EqualFold(s.Lock.LockState, "locked")
}

// Battery holds battery telemetry for battery-powered devices.
type Battery struct {
	Level int  `json:"level"`
	Low   bool `json:"low"`
}

// AccessFlags declare which caller roles may see and operate a device.
type AccessFlags struct {
	OwnerAccess  bool `json:"ownerAccess"`
	TenantAccess bool `json:"tenantAccess"`
	GuestAccess  bool `json:"guestAccess"`
	AdminAccess  bool `json:"adminAccess"`
}

// Integration holds remote control-service bindings.
type Integration struct {
	HomeAssistant *HomeAssistantBinding `json:"homeAssistant,omitempty"`
}

// HomeAssistantBinding addresses a device on the remote controller.
type HomeAssistantBinding struct {
	EntityID string `json:"entityId,omitempty"`
	Domain   string `json:"domain,omitempty"`
}

// Category is this layer's own semantic classification of a device,
// independent of the controller domain.
type Category string

// Category constants.
const (
	CategoryLock     Category = "lock"
	CategoryMotor    Category = "motor"
	CategorySensor   Category = "sensor"
	CategoryLight    Category = "light"
	CategorySecurity Category = "security"
	CategoryOther    Category = "other"
)

// AllCategories returns all valid category values.
func AllCategories() []Category {
	return []Category{
		CategoryLock, CategoryMotor, CategorySensor,
		CategoryLight, CategorySecurity, CategoryOther,
	}
}

// Domain is the remote control service's command vocabulary for a device
// class. Only a subset of domains has generic command semantics; see
// ControlTarget.Controllable.
type Domain string

// Domain constants.
const (
	DomainSwitch       Domain = "switch"
	DomainCover        Domain = "cover"
	DomainLock         Domain = "lock"
	DomainLight        Domain = "light"
	DomainMotor        Domain = "motor"
	DomainSensor       Domain = "sensor"
	DomainBinarySensor Domain = "binary_sensor"
)

// AllDomains returns all valid domain values.
func AllDomains() []Domain {
	return []Domain{
		DomainSwitch, DomainCover, DomainLock, DomainLight,
		DomainMotor, DomainSensor, DomainBinarySensor,
	}
}

// IsValid reports whether d is one of the known domains.
func (d Domain) IsValid() bool {
	for _, known := range AllDomains() {
		if d == known {
			return true
		}
	}
	return false
}

// Action is a command verb offered to UI consumers.
type Action string

// Action constants.
const (
	ActionLock   Action = "lock"
	ActionUnlock Action = "unlock"
	ActionOpen   Action = "open"
	ActionClose  Action = "close"
	ActionToggle Action = "toggle"
	ActionRead   Action = "read"
)

// ActionSpec pairs a display label with its command verb.
type ActionSpec struct {
	Label  string `json:"label"`
	Action Action `json:"action"`
}

// Categorized is a raw record enriched with derived classification and
// display metadata. Derived fields are a pure function of the record: two
// calls on an unchanged record yield identical results.
type Categorized struct {
	RawDevice

	Category        Category    `json:"category"`
	DisplayName     string      `json:"displayName"`
	Icon            string      `json:"icon"`
	PrimaryAction   *ActionSpec `json:"primaryAction,omitempty"`
	SecondaryAction *ActionSpec `json:"secondaryAction,omitempty"`
}

// ControlTarget is the resolved remote-control address of a device.
// A zero EntityID means the device cannot be commanded.
type ControlTarget struct {
	EntityID string `json:"entityId,omitempty"`
	Domain   Domain `json:"domain,omitempty"`
}

// Controllable reports whether the target can receive commands: an entity
// must be bound and the domain must carry safe generic command semantics.
// Configuration absence always wins over a valid domain.
func (t ControlTarget) Controllable() bool {
	if t.EntityID == "" {
		return false
	}
	switch t.Domain {
	case DomainSwitch, DomainCover, DomainLock, DomainLight, DomainMotor:
		return true
	default:
		return false
	}
}

// Normalize fills safe defaults for optional fields that may be absent in
// wire payloads. It mutates the record in place and is idempotent.
func (d *RawDevice) Normalize() {
	if d.Capabilities == nil {
		d.Capabilities = []string{}
	}
	if d.Status == "" {
		d.Status = StatusOffline
	}
}

// HasCapability reports whether the device declares the given capability
// tag. Matching is case-insensitive.
func (d *RawDevice) HasCapability(tag string) bool {
	for _, c := range d.Capabilities {
		if strings.EqualFold(c, tag) {
			return true
		}
	}
	return false
}

// hasCapabilityContaining reports whether any capability tag contains the
// given substring.
func (d *RawDevice) hasCapabilityContaining(sub string) bool {
	for _, c := range d.Capabilities {
		if strings.Contains(strings.ToLower(c), sub) {
			return true
		}
	}
	return false
}

// DeepCopy creates an independent copy of the record. Slice and pointer
// fields are cloned so cache-held records cannot be mutated by callers.
func (d *RawDevice) DeepCopy() *RawDevice {
	if d == nil {
		return nil
	}

	cpy := *d

	if d.Capabilities != nil {
		cpy.Capabilities = make([]string, len(d.Capabilities))
		copy(cpy.Capabilities, d.Capabilities)
	}
	if d.LastKnownState != nil {
		state := *d.LastKnownState
		if d.LastKnownState.Lock != nil {
			lock := *d.LastKnownState.Lock
			state.Lock = &lock
		}
		cpy.LastKnownState = &state
	}
	if d.Battery != nil {
		battery := *d.Battery
		cpy.Battery = &battery
	}
	if d.Integration != nil {
		integ := *d.Integration
		if d.Integration.HomeAssistant != nil {
			ha := *d.Integration.HomeAssistant
			integ.HomeAssistant = &ha
		}
		cpy.Integration = &integ
	}

	return &cpy
}
