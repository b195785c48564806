package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Calibration profiles - named sets of classifier tuning constants.
		// At most one profile is active at a time (enforced in the
		// repository, not the schema).
		`CREATE TABLE IF NOT EXISTS calibrations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			double_pinch_window_ms INTEGER NOT NULL,
			pinch_threshold REAL NOT NULL,
			fist_threshold REAL NOT NULL,
			spread_threshold REAL NOT NULL,
			rotation_deadzone REAL NOT NULL,
			zoom_deadzone REAL NOT NULL,
			rotation_sensitivity REAL NOT NULL,
			zoom_sensitivity REAL NOT NULL,
			rotation_decay REAL NOT NULL,
			idle_spin REAL NOT NULL DEFAULT 0,
			active INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Interaction sessions - one row per tracking run.
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			frames INTEGER NOT NULL DEFAULT 0
		)`,

		// Mode transitions observed within a session, with the control
		// values at the moment of the switch.
		`CREATE TABLE IF NOT EXISTS mode_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			mode TEXT NOT NULL,
			rotation_velocity REAL NOT NULL,
			zoom_level REAL NOT NULL,
			focus_locked INTEGER NOT NULL,
			at DATETIME NOT NULL
		)`,

		// Settings table - application settings as key-value pairs.
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_mode_events_session_id ON mode_events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
