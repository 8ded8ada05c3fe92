package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atriolabs/atrio-core/internal/control"
	"github.com/atriolabs/atrio-core/internal/device"
	"github.com/atriolabs/atrio-core/internal/entrance"
)

// CategorizedDevice is a categorized record enriched with its resolved
// control target and the session key clients use on the control endpoints.
type CategorizedDevice struct {
	device.Categorized

	Control    device.ControlTarget `json:"control"`
	ControlKey string               `json:"controlKey"`
}

func categorizedView(d *device.RawDevice) CategorizedDevice {
	return CategorizedDevice{
		Categorized: device.Categorize(d),
		Control:     device.Resolve(d),
		ControlKey:  control.Key(d),
	}
}

// handleListDevices returns the raw snapshot for a building, filtered to
// what the caller is allowed to see.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")
	caller := callerFrom(r)

	records := device.FilterVisible(s.snapshot.ListByBuilding(buildingID), caller)
	writeJSON(w, http.StatusOK, map[string]any{
		"devices": records,
		"count":   len(records),
	})
}

// handleListCategorized returns the building's devices with derived
// category, display metadata, actions, and control targets.
func (s *Server) handleListCategorized(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")
	caller := callerFrom(r)

	records := device.FilterVisible(s.snapshot.ListByBuilding(buildingID), caller)
	out := make([]CategorizedDevice, 0, len(records))
	for i := range records {
		out = append(out, categorizedView(&records[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"devices": out,
		"count":   len(out),
	})
}

// handleGetDevice returns a single categorized device.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")
	deviceID := chi.URLParam(r, "deviceID")
	caller := callerFrom(r)

	rec, err := s.snapshot.Get(buildingID, deviceID)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) || errors.Is(err, device.ErrBuildingNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		writeInternalError(w, "failed to load device")
		return
	}

	if !device.Visible(rec, caller) {
		// Hide existence from callers without access.
		writeNotFound(w, "device not found")
		return
	}

	writeJSON(w, http.StatusOK, categorizedView(rec))
}

// handleEntrance returns the common-entrance quick view: the main lock,
// the main gate, and every entrance candidate.
func (s *Server) handleEntrance(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")
	caller := callerFrom(r)

	records := device.FilterVisible(s.snapshot.ListByBuilding(buildingID), caller)
	writeJSON(w, http.StatusOK, entrance.Aggregate(records))
}
