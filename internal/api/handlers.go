package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reiki-home/reiki-core/internal/command"
	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/dispatch"
	"github.com/reiki-home/reiki-core/internal/location"
	"github.com/reiki-home/reiki-core/internal/registry"
	"github.com/reiki-home/reiki-core/internal/scene"
)

// controlRequest is the body of POST /control. A single command may be
// sent bare or wrapped in a commands array.
type controlRequest struct {
	Commands []command.Command `json:"commands"`
}

// handleControl validates and dispatches a command batch.
//
// Per-command failures are reported in the results, not as an HTTP
// error; the batch as a whole only fails when it cannot be dispatched.
func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var req controlRequest
	if err := json.Unmarshal(body, &req); err != nil || len(req.Commands) == 0 {
		// Fall back to a single bare command
		var single command.Command
		if err := json.Unmarshal(body, &single); err != nil || single.Device == "" {
			writeBadRequest(w, "expected a command or a commands array")
			return
		}
		req.Commands = []command.Command{single}
	}

	results, err := s.dispatcher.Dispatch(r.Context(), req.Commands)
	if err != nil {
		s.writeDispatchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// handleListDevices returns the full device state snapshot.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Snapshot())
}

// handleGetDevice returns one device's state.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	t := device.Type(chi.URLParam(r, "type"))
	loc := location.Location(chi.URLParam(r, "location"))

	state, err := s.state.Get(t, loc)
	if err != nil {
		if errors.Is(err, registry.ErrDeviceNotFound) {
			writeNotFound(w, "no such device")
			return
		}
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device":   t,
		"location": loc,
		"state":    state,
	})
}

// handleListSensors returns readings for every room.
func (s *Server) handleListSensors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Sensors())
}

// handleGetSensor returns one room's reading.
func (s *Server) handleGetSensor(w http.ResponseWriter, r *http.Request) {
	loc := location.Location(chi.URLParam(r, "location"))

	reading, ok := s.state.Sensor(loc)
	if !ok {
		writeNotFound(w, "no such room")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"location": loc,
		"sensors":  reading,
	})
}

// handleListScenes returns the scene table.
func (s *Server) handleListScenes(w http.ResponseWriter, _ *http.Request) {
	names := s.scenes.Names()
	scenes := make([]scene.Scene, 0, len(names))
	for _, name := range names {
		if sc, ok := s.scenes.Get(name); ok {
			scenes = append(scenes, sc)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenes": scenes})
}

// handleGetScene returns one scene definition.
func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sc, ok := s.scenes.Get(name)
	if !ok {
		writeNotFound(w, "unknown scene: "+name)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// executeSceneRequest is the optional body of POST /scenes/{name}/execute.
type executeSceneRequest struct {
	Location location.Location `json:"location"`
}

// handleExecuteScene resolves a scene and dispatches its command batch.
func (s *Server) handleExecuteScene(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req executeSceneRequest
	if body, err := readBody(r); err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}
	}

	batch, err := s.scenes.Resolve(name, req.Location)
	if err != nil {
		if errors.Is(err, scene.ErrSceneNotFound) {
			writeNotFound(w, "unknown scene: "+name)
			return
		}
		writeBadRequest(w, err.Error())
		return
	}

	results, err := s.dispatcher.Dispatch(r.Context(), batch)
	if err != nil {
		s.writeDispatchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"scene":   name,
		"results": results,
	})
}

// handleListHistory returns recent state changes across all devices.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeNotFound(w, "history is not enabled")
		return
	}

	entries, err := s.history.ListRecent(r.Context(), queryLimit(r))
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// handleDeviceHistory returns recent state changes for one device.
func (s *Server) handleDeviceHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeNotFound(w, "history is not enabled")
		return
	}

	t := device.Type(chi.URLParam(r, "type"))
	loc := location.Location(chi.URLParam(r, "location"))

	entries, err := s.history.ListByDevice(r.Context(), t, loc, queryLimit(r))
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// writeDispatchError maps dispatcher errors onto HTTP responses.
func (s *Server) writeDispatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, command.ErrEmptyBatch):
		writeBadRequest(w, err.Error())
	case errors.Is(err, dispatch.ErrNotRunning):
		writeUnavailable(w, "dispatcher is not running")
	default:
		writeInternalError(w, err.Error())
	}
}

// queryLimit parses the optional ?limit= query parameter.
func queryLimit(r *http.Request) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0
	}
	limit, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return limit
}

// readBody drains the request body, honouring the size limit middleware.
func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	buf, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.New("reading request body: " + err.Error())
	}
	return buf, nil
}
