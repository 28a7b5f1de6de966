// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/trainerdesk/internal/session"
)

// timeLayout is fixed-width UTC with nanoseconds so that string comparison
// orders instants and no precision is lost on write.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLite implements session.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const sessionColumns = `id, participant_id, title, start_at, end_at, notes, created_at`

// FetchSessions returns sessions starting in [start, end), ordered by start.
func (s *SQLite) FetchSessions(ctx context.Context, start, end time.Time) ([]*session.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE start_at >= ? AND start_at < ?
		ORDER BY start_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// ListSessionsByParticipant returns a participant's sessions starting in [start, end).
func (s *SQLite) ListSessionsByParticipant(ctx context.Context, participantID string, start, end time.Time) ([]*session.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE participant_id = ? AND start_at >= ? AND start_at < ?
		ORDER BY start_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, participantID, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("querying participant sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating participant sessions: %w", err)
	}

	return sessions, nil
}

// GetSession retrieves a session by ID.
func (s *SQLite) GetSession(ctx context.Context, id string) (*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`

	sess, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// SaveSession inserts the session or updates it when the ID exists.
func (s *SQLite) SaveSession(ctx context.Context, sess *session.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	return upsertSession(ctx, s.db, sess)
}

// DeleteSession removes a session by ID.
func (s *SQLite) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("session %s: %w", id, session.ErrSessionNotFound)
	}

	return nil
}

// Import writes participants and sessions in a single transaction.
// Nothing is written if any record is invalid.
func (s *SQLite) Import(ctx context.Context, participants []*session.Participant, sessions []*session.Session) error {
	for _, sess := range sessions {
		if err := sess.Validate(); err != nil {
			return fmt.Errorf("session %q: %w", sess.Title, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range participants {
		if err := insertParticipant(ctx, tx, p); err != nil {
			return err
		}
	}
	for _, sess := range sessions {
		if err := upsertSession(ctx, tx, sess); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

// CreateParticipant adds a new participant.
func (s *SQLite) CreateParticipant(ctx context.Context, p *session.Participant) error {
	if p.Name == "" {
		return session.ErrEmptyName
	}
	return insertParticipant(ctx, s.db, p)
}

// GetParticipant retrieves a participant by ID.
func (s *SQLite) GetParticipant(ctx context.Context, id string) (*session.Participant, error) {
	query := `SELECT id, name, email, created_at FROM participants WHERE id = ?`

	p, err := scanParticipant(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrParticipantNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListParticipants returns all participants ordered by name.
func (s *SQLite) ListParticipants(ctx context.Context) ([]*session.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, created_at FROM participants ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying participants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var participants []*session.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating participants: %w", err)
	}

	return participants, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func upsertSession(ctx context.Context, db execer, sess *session.Session) error {
	createdAt := sess.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			participant_id = excluded.participant_id,
			title          = excluded.title,
			start_at       = excluded.start_at,
			end_at         = excluded.end_at,
			notes          = excluded.notes
	`

	_, err := db.ExecContext(ctx, query,
		sess.ID,
		sess.ParticipantID,
		sess.Title,
		formatTime(sess.Start),
		formatTime(sess.End),
		sess.Notes,
		formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func insertParticipant(ctx context.Context, db execer, p *session.Participant) error {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO participants (id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("inserting participant: %w", err)
	}
	return nil
}

func scanSession(row scanner) (*session.Session, error) {
	var (
		sess      session.Session
		startAt   string
		endAt     string
		createdAt string
	)

	err := row.Scan(&sess.ID, &sess.ParticipantID, &sess.Title, &startAt, &endAt, &sess.Notes, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	if sess.Start, err = parseTime(startAt); err != nil {
		return nil, fmt.Errorf("session %s: parsing start: %w", sess.ID, err)
	}
	if sess.End, err = parseTime(endAt); err != nil {
		return nil, fmt.Errorf("session %s: parsing end: %w", sess.ID, err)
	}
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("session %s: parsing created at: %w", sess.ID, err)
	}

	return &sess, nil
}

func scanParticipant(row scanner) (*session.Participant, error) {
	var (
		p         session.Participant
		createdAt string
	)

	err := row.Scan(&p.ID, &p.Name, &p.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning participant: %w", err)
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("participant %s: parsing created at: %w", p.ID, err)
	}
	return &p, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored instant and returns it in local time, which is
// what the calendar buckets against.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t.Local(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}

var _ session.Repository = (*SQLite)(nil)
