package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

func TestAPI_CalibrationWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	s, _ := store.New(filepath.Join(tmpDir, "test.db"))
	defer s.Close()

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Create a calibration profile
	createBody := `{"name": "desk-setup", "config": {"fist_threshold": 0.18}}`
	resp, err := client.Post(ts.URL+"/api/calibrations", "application/json", bytes.NewBufferString(createBody))
	if err != nil {
		t.Fatalf("POST /api/calibrations error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Active bool   `json:"active"`
		Config struct {
			FistThreshold  float64 `json:"fist_threshold"`
			PinchThreshold float64 `json:"pinch_threshold"`
		} `json:"config"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.Name != "desk-setup" {
		t.Errorf("created name = %s, want desk-setup", created.Name)
	}
	if created.Config.FistThreshold != 0.18 {
		t.Errorf("fist_threshold = %g, want 0.18", created.Config.FistThreshold)
	}
	if created.Config.PinchThreshold != gesture.DefaultConfig().PinchThreshold {
		t.Errorf("omitted pinch_threshold = %g, want default %g",
			created.Config.PinchThreshold, gesture.DefaultConfig().PinchThreshold)
	}

	// 2. Activate it
	resp, _ = client.Post(ts.URL+"/api/calibrations/"+created.ID+"/activate", "application/json", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST activate status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var activated struct {
		Active bool `json:"active"`
	}
	json.NewDecoder(resp.Body).Decode(&activated)
	resp.Body.Close()
	if !activated.Active {
		t.Error("profile should be active after activation")
	}

	// 3. List profiles
	resp, _ = client.Get(ts.URL + "/api/calibrations")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/calibrations status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var listed struct {
		Calibrations []struct {
			ID string `json:"id"`
		} `json:"calibrations"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()
	if len(listed.Calibrations) != 1 {
		t.Fatalf("len(calibrations) = %d, want 1", len(listed.Calibrations))
	}

	// 4. Delete it
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/calibrations/"+created.ID, nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	// 5. Verify deleted
	resp, _ = client.Get(ts.URL + "/api/calibrations/" + created.ID)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestAPI_SessionEndpoints(t *testing.T) {
	tmpDir := t.TempDir()
	s, _ := store.New(filepath.Join(tmpDir, "test.db"))
	defer s.Close()

	s.Sessions().Begin(&store.Session{ID: "sess-1"})
	s.Sessions().RecordEvent(&store.ModeEvent{SessionID: "sess-1", Mode: "chaos", ZoomLevel: 0.3})
	s.Sessions().End("sess-1", 42)

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions error = %v", err)
	}
	var listed struct {
		Sessions []struct {
			ID     string `json:"id"`
			Frames int64  `json:"frames"`
		} `json:"sessions"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Sessions) != 1 || listed.Sessions[0].Frames != 42 {
		t.Fatalf("sessions = %+v, want one session with 42 frames", listed.Sessions)
	}

	resp, _ = ts.Client().Get(ts.URL + "/api/sessions/sess-1/events")
	var events struct {
		Events []struct {
			Mode      string  `json:"mode"`
			ZoomLevel float64 `json:"zoom_level"`
		} `json:"events"`
	}
	json.NewDecoder(resp.Body).Decode(&events)
	resp.Body.Close()

	if len(events.Events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events.Events))
	}
	if events.Events[0].Mode != "chaos" || events.Events[0].ZoomLevel != 0.3 {
		t.Errorf("event = %+v, want chaos at zoom 0.3", events.Events[0])
	}
}

func TestActionHub_BroadcastsToWebSocketClients(t *testing.T) {
	hub := NewActionHub()
	srv := New(Config{Hub: hub})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/actions"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	// Wait for the hub to register the client.
	for i := 0; i < 50 && hub.ClientCount() == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.Publish(gesture.Action{Mode: gesture.ModeControl, RotationVelocity: 0.04, ZoomLevel: 0.5})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}

	var payload struct {
		Action struct {
			Mode             string  `json:"mode"`
			RotationVelocity float64 `json:"rotation_velocity"`
			ZoomLevel        float64 `json:"zoom_level"`
		} `json:"action"`
		Timestamp int64 `json:"timestamp"`
	}
	if err := json.Unmarshal(msg, &payload); err != nil {
		t.Fatalf("invalid payload %s: %v", msg, err)
	}

	if payload.Action.Mode != "control" {
		t.Errorf("mode = %s, want control", payload.Action.Mode)
	}
	if payload.Action.RotationVelocity != 0.04 || payload.Action.ZoomLevel != 0.5 {
		t.Errorf("action = %+v, want rotation 0.04 zoom 0.5", payload.Action)
	}
	if payload.Timestamp == 0 {
		t.Error("timestamp should be set")
	}
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}
