package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session is one tracking run: from pipeline start to stop.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	Frames    int64
}

// ModeEvent is one mode transition observed during a session, with the
// continuous control values at the moment of the switch.
type ModeEvent struct {
	ID               int64
	SessionID        string
	Mode             string
	RotationVelocity float64
	ZoomLevel        float64
	FocusLocked      bool
	At               time.Time
}

// SessionRepository records interaction sessions and their mode transitions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Begin inserts a new session row.
func (r *SessionRepository) Begin(s *Session) error {
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, frames) VALUES (?, ?, 0)`,
		s.ID, s.StartedAt,
	)
	return err
}

// End closes a session, recording its end time and total frame count.
func (r *SessionRepository) End(id string, frames int64) error {
	now := time.Now()
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, frames = ? WHERE id = ?`,
		now, frames, id,
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

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	s := &Session{}
	var endedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, started_at, ended_at, frames FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.StartedAt, &endedAt, &s.Frames)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if endedAt.Valid {
		s.EndedAt = &endedAt.Time
	}
	return s, nil
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, frames FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s := &Session{}
		var endedAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.StartedAt, &endedAt, &s.Frames); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			s.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// RecordEvent appends a mode transition to a session.
func (r *SessionRepository) RecordEvent(e *ModeEvent) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	result, err := r.db.Exec(
		`INSERT INTO mode_events (session_id, mode, rotation_velocity, zoom_level, focus_locked, at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Mode, e.RotationVelocity, e.ZoomLevel, e.FocusLocked, e.At,
	)
	if err != nil {
		return err
	}

	e.ID, err = result.LastInsertId()
	return err
}

// Events retrieves the mode transitions of a session in chronological order.
func (r *SessionRepository) Events(sessionID string) ([]*ModeEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, mode, rotation_velocity, zoom_level, focus_locked, at
		 FROM mode_events WHERE session_id = ? ORDER BY at, id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*ModeEvent
	for rows.Next() {
		e := &ModeEvent{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Mode, &e.RotationVelocity,
			&e.ZoomLevel, &e.FocusLocked, &e.At); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
