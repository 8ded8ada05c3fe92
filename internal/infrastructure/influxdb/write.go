package influxdb

import (
	"strings"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/atriolabs/atrio-core/internal/device"
)

// RecordTransition records one confirmed-state transition observed by a
// reconciliation session. Writes are non-blocking and batched; when the
// client is disconnected the point is silently dropped, keeping history
// recording strictly best-effort.
//
// Implements the control engine's Recorder interface.
func (c *Client) RecordTransition(buildingID, entityID string, domain device.Domain, from, to string) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{
		"state": to,
	}
	if v, ok := stateValue(to); ok {
		fields["value"] = v
	}
	if from != "" {
		fields["previous"] = from
	}

	point := write.NewPoint(
		"device_state",
		map[string]string{
			"building_id": buildingID,
			"entity_id":   entityID,
			"domain":      string(domain),
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// stateValue maps well-known states onto a numeric axis so dashboards can
// graph activity without string parsing. Unknown states carry no value.
func stateValue(state string) (float64, bool) {
	switch strings.ToLower(state) {
	case "on", "open", "locked":
		return 1, true
	case "off", "closed", "unlocked":
		return 0, true
	default:
		return 0, false
	}
}
