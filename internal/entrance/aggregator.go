// Package entrance selects the distinguished "main lock" and "main gate"
// controls among a building's common-entrance devices.
package entrance

import "github.com/atriolabs/atrio-core/internal/device"

// Quick holds the common-entrance quick controls for one building.
// MainLock and MainGate are nil when no candidate qualifies; callers must
// treat nil as "no entrance device present", not as an error.
type Quick struct {
	MainLock   *device.Categorized  `json:"mainLock,omitempty"`
	MainGate   *device.Categorized  `json:"mainGate,omitempty"`
	Candidates []device.Categorized `json:"candidates"`
}

// Aggregate filters a building's records to its common-entrance subset,
// re-categorizes it, and picks the main lock and gate.
//
// A record is an entrance candidate when its location says so (room or
// room type "entrance", zone "common", or the common-area flag) and it
// categorizes as a lock, motor, or proximity security device. The main
// lock is the first lock candidate whose room or room type is "entrance";
// the main gate is the first motor candidate under the same condition.
func Aggregate(records []device.RawDevice) Quick {
	var q Quick
	q.Candidates = []device.Categorized{}

	for i := range records {
		if !atEntrance(&records[i].Location) {
			continue
		}

		c := device.Categorize(&records[i])
		switch c.Category {
		case device.CategoryLock, device.CategoryMotor, device.CategorySecurity:
			q.Candidates = append(q.Candidates, c)
		default:
			continue
		}

		if !entranceRoom(&c.Location) {
			continue
		}
		if q.MainLock == nil && c.Category == device.CategoryLock {
			lock := c
			q.MainLock = &lock
		}
		if q.MainGate == nil && c.Category == device.CategoryMotor {
			gate := c
			q.MainGate = &gate
		}
	}

	return q
}

// atEntrance is the candidate filter over a record's location.
func atEntrance(loc *device.Location) bool {
	return entranceRoom(loc) || loc.Zone == "common" || loc.IsCommonArea
}

// entranceRoom is the stricter condition used for main lock/gate selection.
func entranceRoom(loc *device.Location) bool {
	return loc.Room == "entrance" || loc.RoomType == "entrance"
}
