package store

import (
	"errors"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

func TestCalibrationRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	cfg := gesture.DefaultConfig()
	cfg.FistThreshold = 0.18
	cfg.DoublePinchWindow = 350 * time.Millisecond

	c := &Calibration{
		ID:     "cal-1",
		Name:   "living room",
		Config: cfg,
	}
	if err := s.Calibrations().Create(c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Calibrations().GetByID("cal-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Name != "living room" {
		t.Errorf("Name = %q, want %q", got.Name, "living room")
	}
	if got.Config.FistThreshold != 0.18 {
		t.Errorf("FistThreshold = %g, want 0.18", got.Config.FistThreshold)
	}
	if got.Config.DoublePinchWindow != 350*time.Millisecond {
		t.Errorf("DoublePinchWindow = %v, want 350ms", got.Config.DoublePinchWindow)
	}
	if got.Active {
		t.Error("new profile should not be active")
	}
}

func TestCalibrationRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Calibrations().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Calibrations().GetActive(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetActive() error = %v, want ErrNotFound", err)
	}
}

func TestCalibrationRepository_ActivateIsExclusive(t *testing.T) {
	s := newTestStore(t)
	repo := s.Calibrations()

	for _, id := range []string{"a", "b"} {
		if err := repo.Create(&Calibration{ID: id, Name: "profile-" + id, Config: gesture.DefaultConfig()}); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	if err := repo.Activate("a"); err != nil {
		t.Fatalf("Activate(a) error = %v", err)
	}
	if err := repo.Activate("b"); err != nil {
		t.Fatalf("Activate(b) error = %v", err)
	}

	active, err := repo.GetActive()
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if active.ID != "b" {
		t.Errorf("active profile = %q, want %q", active.ID, "b")
	}

	a, _ := repo.GetByID("a")
	if a.Active {
		t.Error("profile a should have been deactivated")
	}
}

func TestCalibrationRepository_ActivateMissing(t *testing.T) {
	s := newTestStore(t)

	if err := s.Calibrations().Activate("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Activate() error = %v, want ErrNotFound", err)
	}
}

func TestCalibrationRepository_Update(t *testing.T) {
	s := newTestStore(t)
	repo := s.Calibrations()

	c := &Calibration{ID: "cal-1", Name: "default", Config: gesture.DefaultConfig()}
	if err := repo.Create(c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	c.Name = "tuned"
	c.Config.RotationSensitivity = 8.0
	if err := repo.Update(c); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := repo.GetByID("cal-1")
	if got.Name != "tuned" || got.Config.RotationSensitivity != 8.0 {
		t.Errorf("update not persisted: name=%q sensitivity=%g", got.Name, got.Config.RotationSensitivity)
	}
}

func TestCalibrationRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Calibrations()

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Create(&Calibration{ID: id, Name: "p-" + id, Config: gesture.DefaultConfig()}); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Errorf("len(list) = %d, want 3", len(list))
	}
}

func TestCalibrationRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Calibrations()

	repo.Create(&Calibration{ID: "cal-1", Name: "default", Config: gesture.DefaultConfig()})

	if err := repo.Delete("cal-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID("cal-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete("cal-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
