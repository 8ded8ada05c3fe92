package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atriolabs/atrio-core/internal/control"
	"github.com/atriolabs/atrio-core/internal/device"
)

// acquireRequest identifies the device record backing a control session.
type acquireRequest struct {
	BuildingID string `json:"buildingId"`
	DeviceID   string `json:"deviceId"`
}

// handleAcquire opens (or joins) the control session for a device. Sessions
// are reference counted: each acquire must be paired with a release.
func (s *Server) handleAcquire(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	caller := callerFrom(r)

	var req acquireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.BuildingID == "" || req.DeviceID == "" {
		writeBadRequest(w, "buildingId and deviceId are required")
		return
	}

	rec, err := s.snapshot.Get(req.BuildingID, req.DeviceID)
	if err != nil {
		writeNotFound(w, "device not found")
		return
	}
	if !device.Visible(rec, caller) {
		writeNotFound(w, "device not found")
		return
	}

	if control.Key(rec) != key {
		writeBadRequest(w, "session key does not match device")
		return
	}

	sess := s.control.Acquire(req.BuildingID, rec)
	writeJSON(w, http.StatusOK, map[string]any{
		"key":   key,
		"model": sess.ReadModel(),
	})
}

// handleRelease drops one reference to the session. The last release tears
// the session down and stops its polling.
func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := s.control.Release(key); err != nil {
		writeNotFound(w, "no session for key")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"released": key})
}

// handleReadModel returns the session's current read model.
func (s *Server) handleReadModel(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	sess, err := s.control.Get(key)
	if err != nil {
		writeNotFound(w, "no session for key")
		return
	}
	writeJSON(w, http.StatusOK, sess.ReadModel())
}

// handleAction dispatches a control verb to the session and returns the
// updated read model. Command failures surface as 502 with the upstream
// detail; the optimistic state has already been reverted by then.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	action := chi.URLParam(r, "action")

	sess, err := s.control.Get(key)
	if err != nil {
		writeNotFound(w, "no session for key")
		return
	}

	ctx := r.Context()
	switch action {
	case "refresh":
		err = sess.Refresh(ctx)
	case "toggle":
		err = sess.Toggle(ctx)
	case "turn_on":
		err = sess.TurnOn(ctx)
	case "turn_off":
		err = sess.TurnOff(ctx)
	case "open":
		err = sess.Open(ctx)
	case "close":
		err = sess.CloseCover(ctx)
	case "lock":
		err = sess.Lock(ctx)
	case "unlock":
		err = sess.Unlock(ctx)
	default:
		writeBadRequest(w, "unknown action: "+action)
		return
	}

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, sess.ReadModel())
	case errors.Is(err, control.ErrNotControllable):
		writeError(w, http.StatusConflict, ErrCodeConflict, "device is not controllable")
	case errors.Is(err, control.ErrUnsupportedAction):
		writeBadRequest(w, "action not supported for this device")
	case errors.Is(err, control.ErrSessionClosed):
		writeError(w, http.StatusConflict, ErrCodeConflict, "session is closed")
	default:
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
	}
}
