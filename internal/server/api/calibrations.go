// Package api provides the HTTP handlers for calibration profiles and
// session telemetry.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// ConfigApplier receives calibration constants when a profile is activated.
type ConfigApplier interface {
	SetCalibration(cfg gesture.Config)
}

// CalibrationHandler handles HTTP requests for calibration profiles.
type CalibrationHandler struct {
	store   *store.Store
	applier ConfigApplier
}

// NewCalibrationHandler creates a CalibrationHandler. The applier may be
// nil; activation then only flips the database flag.
func NewCalibrationHandler(s *store.Store, applier ConfigApplier) *CalibrationHandler {
	return &CalibrationHandler{store: s, applier: applier}
}

// ServeHTTP routes calibration requests.
// Paths: /api/calibrations, /api/calibrations/{id},
// /api/calibrations/{id}/activate.
func (h *CalibrationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/calibrations")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/activate"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.activate(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type calibrationConfig struct {
	DoublePinchWindowMs int64   `json:"double_pinch_window_ms"`
	PinchThreshold      float64 `json:"pinch_threshold"`
	FistThreshold       float64 `json:"fist_threshold"`
	SpreadThreshold     float64 `json:"spread_threshold"`
	RotationDeadzone    float64 `json:"rotation_deadzone"`
	ZoomDeadzone        float64 `json:"zoom_deadzone"`
	RotationSensitivity float64 `json:"rotation_sensitivity"`
	ZoomSensitivity     float64 `json:"zoom_sensitivity"`
	RotationDecay       float64 `json:"rotation_decay"`
	IdleSpin            float64 `json:"idle_spin"`
}

type calibrationRequest struct {
	Name   string             `json:"name"`
	Config *calibrationConfig `json:"config"`
}

type calibrationResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Config    calibrationConfig `json:"config"`
	Active    bool              `json:"active"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

type listCalibrationsResponse struct {
	Calibrations []calibrationResponse `json:"calibrations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func configFromGesture(cfg gesture.Config) calibrationConfig {
	return calibrationConfig{
		DoublePinchWindowMs: cfg.DoublePinchWindow.Milliseconds(),
		PinchThreshold:      cfg.PinchThreshold,
		FistThreshold:       cfg.FistThreshold,
		SpreadThreshold:     cfg.SpreadThreshold,
		RotationDeadzone:    cfg.RotationDeadzone,
		ZoomDeadzone:        cfg.ZoomDeadzone,
		RotationSensitivity: cfg.RotationSensitivity,
		ZoomSensitivity:     cfg.ZoomSensitivity,
		RotationDecay:       cfg.RotationDecay,
		IdleSpin:            cfg.IdleSpin,
	}
}

// toGesture maps the wire config onto a base config, keeping base values
// for zero fields so partial updates don't wipe tuning constants.
func (c *calibrationConfig) toGesture(base gesture.Config) gesture.Config {
	out := base
	if c == nil {
		return out
	}
	if c.DoublePinchWindowMs > 0 {
		out.DoublePinchWindow = time.Duration(c.DoublePinchWindowMs) * time.Millisecond
	}
	if c.PinchThreshold > 0 {
		out.PinchThreshold = c.PinchThreshold
	}
	if c.FistThreshold > 0 {
		out.FistThreshold = c.FistThreshold
	}
	if c.SpreadThreshold > 0 {
		out.SpreadThreshold = c.SpreadThreshold
	}
	if c.RotationDeadzone > 0 {
		out.RotationDeadzone = c.RotationDeadzone
	}
	if c.ZoomDeadzone > 0 {
		out.ZoomDeadzone = c.ZoomDeadzone
	}
	if c.RotationSensitivity > 0 {
		out.RotationSensitivity = c.RotationSensitivity
	}
	if c.ZoomSensitivity > 0 {
		out.ZoomSensitivity = c.ZoomSensitivity
	}
	if c.RotationDecay > 0 {
		out.RotationDecay = c.RotationDecay
	}
	if c.IdleSpin > 0 {
		out.IdleSpin = c.IdleSpin
	}
	return out
}

func toCalibrationResponse(c *store.Calibration) calibrationResponse {
	return calibrationResponse{
		ID:        c.ID,
		Name:      c.Name,
		Config:    configFromGesture(c.Config),
		Active:    c.Active,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/calibrations.
func (h *CalibrationHandler) list(w http.ResponseWriter, r *http.Request) {
	calibrations, err := h.store.Calibrations().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calibrations")
		return
	}

	response := listCalibrationsResponse{
		Calibrations: make([]calibrationResponse, 0, len(calibrations)),
	}
	for _, c := range calibrations {
		response.Calibrations = append(response.Calibrations, toCalibrationResponse(c))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/calibrations/{id}.
func (h *CalibrationHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	c, err := h.store.Calibrations().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Calibration not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get calibration")
		return
	}

	writeJSON(w, http.StatusOK, toCalibrationResponse(c))
}

// create handles POST /api/calibrations. Omitted config fields fall back
// to the defaults.
func (h *CalibrationHandler) create(w http.ResponseWriter, r *http.Request) {
	var req calibrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	c := &store.Calibration{
		ID:     uuid.New().String(),
		Name:   req.Name,
		Config: req.Config.toGesture(gesture.DefaultConfig()),
	}

	if err := h.store.Calibrations().Create(c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create calibration")
		return
	}

	writeJSON(w, http.StatusCreated, toCalibrationResponse(c))
}

// update handles PUT /api/calibrations/{id}.
func (h *CalibrationHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	c, err := h.store.Calibrations().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Calibration not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get calibration")
		return
	}

	var req calibrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" {
		c.Name = req.Name
	}
	c.Config = req.Config.toGesture(c.Config)

	if err := h.store.Calibrations().Update(c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update calibration")
		return
	}

	// An active profile's changes take effect immediately.
	if c.Active && h.applier != nil {
		h.applier.SetCalibration(c.Config)
	}

	writeJSON(w, http.StatusOK, toCalibrationResponse(c))
}

// activate handles POST /api/calibrations/{id}/activate. The profile's
// constants are applied to the running controller.
func (h *CalibrationHandler) activate(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Calibrations().Activate(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Calibration not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to activate calibration")
		return
	}

	c, err := h.store.Calibrations().GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get calibration")
		return
	}

	if h.applier != nil {
		h.applier.SetCalibration(c.Config)
	}

	writeJSON(w, http.StatusOK, toCalibrationResponse(c))
}

// delete handles DELETE /api/calibrations/{id}.
func (h *CalibrationHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Calibrations().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Calibration not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete calibration")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
