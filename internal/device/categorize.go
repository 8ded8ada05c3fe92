package device

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lockModelPrefixes identifies known lock hardware by model string.
// Matching is case-insensitive on the prefix.
var lockModelPrefixes = []string{
	"danalock", "nuki", "yale", "august", "schlage", "ttlock",
}

// Categorize classifies a raw record into exactly one category and derives
// its display metadata and default actions. It is total and deterministic:
// every record maps to a result, the same record always maps to the same
// result, and no error path exists.
//
// Classification is an ordered rule list; the first matching rule wins.
// Precedence (highest first): lock, motor, sensor, light, security, other.
func Categorize(d *RawDevice) Categorized {
	cat := classify(d)

	c := Categorized{
		RawDevice:   *d.DeepCopy(),
		Category:    cat,
		DisplayName: displayName(d, cat),
		Icon:        icon(d, cat),
	}
	c.PrimaryAction, c.SecondaryAction = actions(d, cat)
	return c
}

// classify applies the ordered rule list.
func classify(d *RawDevice) Category {
	name := strings.ToLower(d.Name)

	switch {
	case d.HasCapability("lock") ||
		hasLockModel(d.Model) ||
		strings.Contains(name, "lock") || strings.Contains(name, "cerrojo"):
		return CategoryLock

	case d.HasCapability("motor") ||
		strings.Contains(name, "motor") || strings.Contains(name, "parking"):
		return CategoryMotor

	case d.HasCapability("motion_detection") || d.HasCapability("temperature") ||
		d.hasCapabilityContaining("sensor") ||
		strings.Contains(name, "pir"):
		return CategorySensor

	case d.HasCapability("brightness") || d.HasCapability("dimming") ||
		strings.Contains(name, "light") || strings.Contains(name, "luz"):
		return CategoryLight

	case d.HasCapability("ble_scanning") || d.HasCapability("proximity_detection"):
		return CategorySecurity

	default:
		return CategoryOther
	}
}

func hasLockModel(model string) bool {
	m := strings.ToLower(model)
	if m == "" {
		return false
	}
	for _, prefix := range lockModelPrefixes {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

// actions derives the default action pair for a category from the record's
// last known state. Sensors and proximity devices are not commandable; they
// only get a re-read action.
func actions(d *RawDevice, cat Category) (primary, secondary *ActionSpec) {
	switch cat {
	case CategoryLock:
		if d.LastKnownState.Locked() {
			primary = &ActionSpec{Label: "Unlock", Action: ActionUnlock}
		} else {
			primary = &ActionSpec{Label: "Lock", Action: ActionLock}
		}
		secondary = &ActionSpec{Label: "Refresh", Action: ActionRead}

	case CategoryMotor:
		if d.LastKnownState != nil && d.LastKnownState.State == "OPEN" {
			primary = &ActionSpec{Label: "Close", Action: ActionClose}
		} else {
			primary = &ActionSpec{Label: "Open", Action: ActionOpen}
		}
		secondary = &ActionSpec{Label: "Refresh", Action: ActionRead}

	case CategorySensor:
		primary = &ActionSpec{Label: "Refresh", Action: ActionRead}

	case CategoryLight:
		primary = &ActionSpec{Label: "Toggle", Action: ActionToggle}

	case CategorySecurity:
		primary = &ActionSpec{Label: "Scan", Action: ActionRead}

	case CategoryOther:
		// No default action.
	}
	return primary, secondary
}

// displayEntry maps a normalized device-name substring to friendly display
// metadata. Entries are checked in order; the first match wins.
type displayEntry struct {
	match string
	name  string
	icon  string
}

var displayTable = []displayEntry{
	{"door sensor", "Door Sensor", "door-sensor"},
	{"doorsensor", "Door Sensor", "door-sensor"},
	{"ultrasonic", "Ultrasonic Sensor", "ultrasonic"},
	{"rain", "Rain Sensor", "rain"},
	{"water pump", "Water Pump", "pump"},
	{"pump", "Water Pump", "pump"},
	{"temperature", "Temperature Probe", "thermometer"},
	{"temp", "Temperature Probe", "thermometer"},
	{"curtain", "Curtain", "curtain"},
	{"fan", "Fan", "fan"},
	{"relay", "Relay", "relay"},
	{"pir", "Motion Sensor", "motion"},
}

// categoryIcons are the fallback icons when no display-table entry matches.
var categoryIcons = map[Category]string{
	CategoryLock:     "lock",
	CategoryMotor:    "gate",
	CategorySensor:   "sensor",
	CategoryLight:    "light",
	CategorySecurity: "shield",
	CategoryOther:    "device",
}

func displayName(d *RawDevice, _ Category) string {
	norm := normalizeName(d.Name)
	for _, e := range displayTable {
		if strings.Contains(norm, e.match) {
			return e.name
		}
	}
	return humanize(d.Name)
}

func icon(d *RawDevice, cat Category) string {
	norm := normalizeName(d.Name)
	for _, e := range displayTable {
		if strings.Contains(norm, e.match) {
			return e.icon
		}
	}
	return categoryIcons[cat]
}

// normalizeName lowercases a raw device name and collapses separators to
// single spaces so substring lookups are insensitive to naming style.
func normalizeName(name string) string {
	s := strings.ToLower(name)
	s = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// humanize turns a raw device name like "parking_motor_1" into
// "Parking Motor 1".
func humanize(name string) string {
	words := strings.Fields(normalizeName(name))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	if len(words) == 0 {
		return name
	}
	return strings.Join(words, " ")
}
