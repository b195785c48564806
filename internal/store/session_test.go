package store

import (
	"errors"
	"testing"
	"time"
)

func TestSessionRepository_BeginAndEnd(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess := &Session{ID: "sess-1"}
	if err := repo.Begin(sess); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	got, err := repo.GetByID("sess-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EndedAt != nil {
		t.Error("open session should have nil EndedAt")
	}

	if err := repo.End("sess-1", 1234); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	got, _ = repo.GetByID("sess-1")
	if got.EndedAt == nil {
		t.Error("ended session should have EndedAt set")
	}
	if got.Frames != 1234 {
		t.Errorf("Frames = %d, want 1234", got.Frames)
	}
}

func TestSessionRepository_EndMissing(t *testing.T) {
	s := newTestStore(t)

	if err := s.Sessions().End("missing", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("End() error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_Events(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	if err := repo.Begin(&Session{ID: "sess-1"}); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	base := time.Now()
	transitions := []struct {
		mode   string
		zoom   float64
		locked bool
	}{
		{mode: "control", zoom: 0.0, locked: false},
		{mode: "chaos", zoom: 0.2, locked: false},
		{mode: "locked", zoom: 0.2, locked: true},
	}

	for i, tr := range transitions {
		err := repo.RecordEvent(&ModeEvent{
			SessionID:   "sess-1",
			Mode:        tr.mode,
			ZoomLevel:   tr.zoom,
			FocusLocked: tr.locked,
			At:          base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("RecordEvent(%d) error = %v", i, err)
		}
	}

	events, err := repo.Events("sess-1")
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}

	for i, e := range events {
		if e.Mode != transitions[i].mode {
			t.Errorf("event %d mode = %q, want %q", i, e.Mode, transitions[i].mode)
		}
	}
	if !events[2].FocusLocked {
		t.Error("locked transition should have FocusLocked true")
	}
}

func TestSessionRepository_EventsCascadeOnDelete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	repo.Begin(&Session{ID: "sess-1"})
	repo.RecordEvent(&ModeEvent{SessionID: "sess-1", Mode: "formed"})

	if _, err := s.DB().Exec(`DELETE FROM sessions WHERE id = 'sess-1'`); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	events, err := repo.Events("sess-1")
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("len(events) = %d after cascade delete, want 0", len(events))
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	now := time.Now()
	repo.Begin(&Session{ID: "old", StartedAt: now.Add(-time.Hour)})
	repo.Begin(&Session{ID: "new", StartedAt: now})

	sessions, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2", len(sessions))
	}
	if sessions[0].ID != "new" {
		t.Errorf("sessions[0] = %q, want newest first", sessions[0].ID)
	}
}
