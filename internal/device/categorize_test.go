package device

import "testing"

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name string
		rec  RawDevice
		want Category
	}{
		{
			name: "lock capability",
			rec:  RawDevice{Name: "thing", Capabilities: []string{"lock"}},
			want: CategoryLock,
		},
		{
			name: "lock model prefix",
			rec:  RawDevice{Name: "device 7", Model: "Danalock V3"},
			want: CategoryLock,
		},
		{
			name: "lock by spanish name",
			rec:  RawDevice{Name: "Cerrojo Principal"},
			want: CategoryLock,
		},
		{
			name: "lock wins over motor keyword",
			rec:  RawDevice{Name: "parking lock motor", Capabilities: []string{"lock", "motor"}},
			want: CategoryLock,
		},
		{
			name: "motor capability",
			rec:  RawDevice{Name: "gate", Capabilities: []string{"motor"}},
			want: CategoryMotor,
		},
		{
			name: "parking name implies motor",
			rec:  RawDevice{Name: "parking_1"},
			want: CategoryMotor,
		},
		{
			name: "motion sensor",
			rec:  RawDevice{Name: "hall", Capabilities: []string{"motion_detection"}},
			want: CategorySensor,
		},
		{
			name: "capability containing sensor",
			rec:  RawDevice{Name: "tank", Capabilities: []string{"water_level_sensor"}},
			want: CategorySensor,
		},
		{
			name: "pir name",
			rec:  RawDevice{Name: "PIR-3"},
			want: CategorySensor,
		},
		{
			name: "sensor wins over light keyword",
			rec:  RawDevice{Name: "light sensor", Capabilities: []string{"temperature"}},
			want: CategorySensor,
		},
		{
			name: "dimmable light",
			rec:  RawDevice{Name: "lamp", Capabilities: []string{"brightness"}},
			want: CategoryLight,
		},
		{
			name: "light by spanish name",
			rec:  RawDevice{Name: "Luz Pasillo"},
			want: CategoryLight,
		},
		{
			name: "ble scanner",
			rec:  RawDevice{Name: "beacon", Capabilities: []string{"ble_scanning"}},
			want: CategorySecurity,
		},
		{
			name: "proximity detector",
			rec:  RawDevice{Name: "reader", Capabilities: []string{"proximity_detection"}},
			want: CategorySecurity,
		},
		{
			name: "nothing matches",
			rec:  RawDevice{Name: "mystery box"},
			want: CategoryOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(&tt.rec); got != tt.want {
				t.Errorf("classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategorizeIsDeterministic(t *testing.T) {
	rec := RawDevice{
		Name:         "front_door_lock",
		Model:        "Nuki Smart Lock",
		Capabilities: []string{"lock"},
		LastKnownState: &LastKnownState{
			Lock: &LockState{Status: "LOCKED"},
		},
	}

	first := Categorize(&rec)
	second := Categorize(&rec)

	if first.Category != second.Category ||
		first.DisplayName != second.DisplayName ||
		first.Icon != second.Icon {
		t.Errorf("repeated Categorize diverged: %+v vs %+v", first, second)
	}
}

func TestLockActions(t *testing.T) {
	locked := RawDevice{
		Name:           "front lock",
		Capabilities:   []string{"lock"},
		LastKnownState: &LastKnownState{Lock: &LockState{LockState: "Locked"}},
	}
	c := Categorize(&locked)
	if c.PrimaryAction == nil || c.PrimaryAction.Action != ActionUnlock {
		t.Errorf("locked device primary = %+v, want unlock", c.PrimaryAction)
	}
	if c.SecondaryAction == nil || c.SecondaryAction.Action != ActionRead {
		t.Errorf("lock secondary = %+v, want read", c.SecondaryAction)
	}

	unlocked := RawDevice{Name: "front lock", Capabilities: []string{"lock"}}
	c = Categorize(&unlocked)
	if c.PrimaryAction == nil || c.PrimaryAction.Action != ActionLock {
		t.Errorf("unlocked device primary = %+v, want lock", c.PrimaryAction)
	}
}

func TestMotorActions(t *testing.T) {
	open := RawDevice{
		Name:           "parking motor",
		Capabilities:   []string{"motor"},
		LastKnownState: &LastKnownState{State: "OPEN"},
	}
	c := Categorize(&open)
	if c.PrimaryAction == nil || c.PrimaryAction.Action != ActionClose {
		t.Errorf("open motor primary = %+v, want close", c.PrimaryAction)
	}

	// Unknown state defaults to open.
	shut := RawDevice{Name: "parking motor", Capabilities: []string{"motor"}}
	c = Categorize(&shut)
	if c.PrimaryAction == nil || c.PrimaryAction.Action != ActionOpen {
		t.Errorf("closed motor primary = %+v, want open", c.PrimaryAction)
	}
}

func TestReadOnlyCategories(t *testing.T) {
	sensor := Categorize(&RawDevice{Name: "PIR hall"})
	if sensor.PrimaryAction == nil || sensor.PrimaryAction.Action != ActionRead {
		t.Errorf("sensor primary = %+v, want read", sensor.PrimaryAction)
	}

	light := Categorize(&RawDevice{Name: "kitchen light"})
	if light.PrimaryAction == nil || light.PrimaryAction.Action != ActionToggle {
		t.Errorf("light primary = %+v, want toggle", light.PrimaryAction)
	}

	other := Categorize(&RawDevice{Name: "mystery"})
	if other.PrimaryAction != nil {
		t.Errorf("other primary = %+v, want none", other.PrimaryAction)
	}
}

func TestDisplayMetadata(t *testing.T) {
	tests := []struct {
		name     string
		rawName  string
		wantName string
		wantIcon string
	}{
		{"door sensor entry", "door_sensor_2", "Door Sensor", "door-sensor"},
		{"pump entry", "garden-pump", "Water Pump", "pump"},
		{"temperature entry", "temp.probe.1", "Temperature Probe", "thermometer"},
		{"pir entry", "PIR Hallway", "Motion Sensor", "motion"},
		{"fallback humanizes", "parking_motor_1", "Parking Motor 1", "gate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Categorize(&RawDevice{Name: tt.rawName})
			if c.DisplayName != tt.wantName {
				t.Errorf("DisplayName = %q, want %q", c.DisplayName, tt.wantName)
			}
			if c.Icon != tt.wantIcon {
				t.Errorf("Icon = %q, want %q", c.Icon, tt.wantIcon)
			}
		})
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"parking_motor_1", "Parking Motor 1"},
		{"front-door.lock", "Front Door Lock"},
		{"  spaced   out  ", "Spaced Out"},
		// Multi-byte first runes must survive capitalisation intact.
		{"ñandú_detector", "Ñandú Detector"},
		{"über-schalter", "Über Schalter"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := humanize(tt.in); got != tt.want {
			t.Errorf("humanize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
