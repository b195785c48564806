package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Calibration is a named set of classifier tuning constants. The zero-value
// thresholds are never defaulted here; use gesture.DefaultConfig when no
// profile is active.
type Calibration struct {
	ID        string
	Name      string
	Config    gesture.Config
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalibrationRepository provides CRUD operations for calibration profiles.
type CalibrationRepository struct {
	db *sql.DB
}

// Calibrations returns the calibration repository for this store.
func (s *Store) Calibrations() *CalibrationRepository {
	return &CalibrationRepository{db: s.db}
}

// Create inserts a new calibration profile.
func (r *CalibrationRepository) Create(c *Calibration) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO calibrations (id, name, double_pinch_window_ms, pinch_threshold,
			fist_threshold, spread_threshold, rotation_deadzone, zoom_deadzone,
			rotation_sensitivity, zoom_sensitivity, rotation_decay, idle_spin,
			active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Config.DoublePinchWindow.Milliseconds(), c.Config.PinchThreshold,
		c.Config.FistThreshold, c.Config.SpreadThreshold, c.Config.RotationDeadzone,
		c.Config.ZoomDeadzone, c.Config.RotationSensitivity, c.Config.ZoomSensitivity,
		c.Config.RotationDecay, c.Config.IdleSpin, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

const calibrationColumns = `id, name, double_pinch_window_ms, pinch_threshold,
	fist_threshold, spread_threshold, rotation_deadzone, zoom_deadzone,
	rotation_sensitivity, zoom_sensitivity, rotation_decay, idle_spin,
	active, created_at, updated_at`

func scanCalibration(row interface{ Scan(...any) error }) (*Calibration, error) {
	c := &Calibration{}
	var windowMs int64

	err := row.Scan(&c.ID, &c.Name, &windowMs, &c.Config.PinchThreshold,
		&c.Config.FistThreshold, &c.Config.SpreadThreshold, &c.Config.RotationDeadzone,
		&c.Config.ZoomDeadzone, &c.Config.RotationSensitivity, &c.Config.ZoomSensitivity,
		&c.Config.RotationDecay, &c.Config.IdleSpin, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Config.DoublePinchWindow = time.Duration(windowMs) * time.Millisecond
	return c, nil
}

// GetByID retrieves a calibration by its ID.
func (r *CalibrationRepository) GetByID(id string) (*Calibration, error) {
	c, err := scanCalibration(r.db.QueryRow(
		`SELECT `+calibrationColumns+` FROM calibrations WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetActive retrieves the currently active calibration, or ErrNotFound when
// no profile has been activated.
func (r *CalibrationRepository) GetActive() (*Calibration, error) {
	c, err := scanCalibration(r.db.QueryRow(
		`SELECT ` + calibrationColumns + ` FROM calibrations WHERE active = 1 LIMIT 1`))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List retrieves all calibration profiles, newest first.
func (r *CalibrationRepository) List() ([]*Calibration, error) {
	rows, err := r.db.Query(
		`SELECT ` + calibrationColumns + ` FROM calibrations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calibrations []*Calibration
	for rows.Next() {
		c, err := scanCalibration(rows)
		if err != nil {
			return nil, err
		}
		calibrations = append(calibrations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return calibrations, nil
}

// Update updates an existing calibration profile.
func (r *CalibrationRepository) Update(c *Calibration) error {
	c.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE calibrations SET name = ?, double_pinch_window_ms = ?,
			pinch_threshold = ?, fist_threshold = ?, spread_threshold = ?,
			rotation_deadzone = ?, zoom_deadzone = ?, rotation_sensitivity = ?,
			zoom_sensitivity = ?, rotation_decay = ?, idle_spin = ?, updated_at = ?
		 WHERE id = ?`,
		c.Name, c.Config.DoublePinchWindow.Milliseconds(), c.Config.PinchThreshold,
		c.Config.FistThreshold, c.Config.SpreadThreshold, c.Config.RotationDeadzone,
		c.Config.ZoomDeadzone, c.Config.RotationSensitivity, c.Config.ZoomSensitivity,
		c.Config.RotationDecay, c.Config.IdleSpin, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Activate marks one calibration active and deactivates every other profile
// in the same transaction.
func (r *CalibrationRepository) Activate(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE calibrations SET active = 1, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`UPDATE calibrations SET active = 0 WHERE id != ?`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a calibration profile by its ID.
func (r *CalibrationRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM calibrations WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
