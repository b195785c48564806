package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/mudra/internal/store"
)

func TestSessionHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)

	s.Sessions().Begin(&store.Session{ID: "sess-1"})
	s.Sessions().End("sess-1", 120)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var response listSessionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(response.Sessions))
	}
	if response.Sessions[0].Frames != 120 {
		t.Errorf("frames = %d, want 120", response.Sessions[0].Frames)
	}
	if response.Sessions[0].EndedAt == "" {
		t.Error("ended session should have ended_at set")
	}
}

func TestSessionHandler_Get(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)

	s.Sessions().Begin(&store.Session{ID: "sess-1"})

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/sess-1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp sessionResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.ID != "sess-1" {
		t.Errorf("id = %q, want sess-1", resp.ID)
	}
	if resp.EndedAt != "" {
		t.Error("open session should omit ended_at")
	}
}

func TestSessionHandler_Events(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)

	s.Sessions().Begin(&store.Session{ID: "sess-1"})
	s.Sessions().RecordEvent(&store.ModeEvent{SessionID: "sess-1", Mode: "formed"})
	s.Sessions().RecordEvent(&store.ModeEvent{SessionID: "sess-1", Mode: "locked", FocusLocked: true})

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/sess-1/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var response listEventsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(response.Events))
	}
	if response.Events[0].Mode != "formed" {
		t.Errorf("events[0].mode = %q, want formed", response.Events[0].Mode)
	}
	if !response.Events[1].FocusLocked {
		t.Error("events[1] should have focus_locked")
	}
}

func TestSessionHandler_NotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)

	for _, path := range []string{"/api/sessions/missing", "/api/sessions/missing/events"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusNotFound)
		}
	}
}

func TestSessionHandler_ReadOnly(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/sessions", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s status = %d, want %d", method, rec.Code, http.StatusMethodNotAllowed)
		}
	}
}
