package session

import (
	"context"
	"time"
)

// Source is the read side the calendar view depends on.
type Source interface {
	// FetchSessions returns all sessions whose start falls in [start, end),
	// ordered by start ascending.
	FetchSessions(ctx context.Context, start, end time.Time) ([]*Session, error)
}

// Store is the mutation side the calendar view depends on.
type Store interface {
	// SaveSession creates the session, or updates it when the ID already exists.
	SaveSession(ctx context.Context, s *Session) error

	// DeleteSession removes a session by ID.
	// Returns ErrSessionNotFound if no session has that ID.
	DeleteSession(ctx context.Context, id string) error
}

// Repository defines the storage interface for sessions and participants.
type Repository interface {
	Source
	Store

	// GetSession retrieves a session by ID.
	// Returns ErrSessionNotFound if no session has that ID.
	GetSession(ctx context.Context, id string) (*Session, error)

	// CreateParticipant adds a new participant.
	CreateParticipant(ctx context.Context, p *Participant) error

	// GetParticipant retrieves a participant by ID.
	// Returns ErrParticipantNotFound if no participant has that ID.
	GetParticipant(ctx context.Context, id string) (*Participant, error)

	// ListParticipants returns all participants ordered by name.
	ListParticipants(ctx context.Context) ([]*Participant, error)

	// Close releases any resources held by the repository.
	Close() error
}
