package db

import "fmt"

// migrations are applied in order; each runs once and bumps user_version.
var migrations = []string{
	`
	CREATE TABLE IF NOT EXISTS participants (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_participants_name ON participants(name);

	CREATE TABLE IF NOT EXISTS sessions (
		id             TEXT PRIMARY KEY,
		participant_id TEXT NOT NULL REFERENCES participants(id),
		title          TEXT NOT NULL,
		start_at       TEXT NOT NULL,
		end_at         TEXT NOT NULL,
		notes          TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_at);
	`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_participant ON sessions(participant_id, start_at);`,
	// Whole-second instants gain a fixed nanosecond field so they keep
	// sorting against new rows.
	`
	UPDATE sessions SET start_at = substr(start_at, 1, 19) || '.000000000Z' WHERE length(start_at) = 20;
	UPDATE sessions SET end_at = substr(end_at, 1, 19) || '.000000000Z' WHERE length(end_at) = 20;
	`,
}

// migrate brings the schema up to date.
func (s *SQLite) migrate() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		if _, err := s.db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("applying migration %d: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := s.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, i+1)); err != nil {
			return fmt.Errorf("recording schema version %d: %w", i+1, err)
		}
	}

	return nil
}

// SchemaVersion returns the applied migration count.
func (s *SQLite) SchemaVersion() (int, error) {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}
