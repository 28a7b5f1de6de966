// Package session defines the core domain types for trainerdesk.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors. All of them wrap ErrMalformed so callers at a storage or
// transport boundary can reject bad records with a single errors.Is check.
var (
	ErrMalformed          = errors.New("malformed session")
	ErrMissingID          = fmt.Errorf("%w: id is required", ErrMalformed)
	ErrMissingParticipant = fmt.Errorf("%w: participant is required", ErrMalformed)
	ErrEmptyTitle         = fmt.Errorf("%w: title cannot be empty", ErrMalformed)
	ErrMissingTime        = fmt.Errorf("%w: start and end are required", ErrMalformed)
	ErrEndBeforeStart     = fmt.Errorf("%w: end must be after start", ErrMalformed)
)

// Domain errors.
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrEmptyName           = errors.New("participant name cannot be empty")
)

// Session is a scheduled, time-bound workout between the trainer and a participant.
type Session struct {
	ID            string
	ParticipantID string
	Title         string
	Start         time.Time
	End           time.Time
	Notes         string
	CreatedAt     time.Time
}

// New creates a new Session with a fresh ID and validates it.
func New(participantID, title string, start, end time.Time) (*Session, error) {
	s := &Session{
		ID:            uuid.NewString(),
		ParticipantID: strings.TrimSpace(participantID),
		Title:         strings.TrimSpace(title),
		Start:         start,
		End:           end,
		CreatedAt:     time.Now(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the invariants every stored or displayed session must hold.
func (s *Session) Validate() error {
	switch {
	case s == nil:
		return ErrMalformed
	case s.ID == "":
		return ErrMissingID
	case s.ParticipantID == "":
		return ErrMissingParticipant
	case strings.TrimSpace(s.Title) == "":
		return ErrEmptyTitle
	case s.Start.IsZero() || s.End.IsZero():
		return ErrMissingTime
	case !s.Start.Before(s.End):
		return ErrEndBeforeStart
	}
	return nil
}

// Duration returns the length of the session.
func (s *Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Minutes returns the session length in whole minutes.
func (s *Session) Minutes() int {
	return int(s.Duration().Minutes())
}

// OverlapsWith returns true if the two sessions share any instant.
// Touching sessions (one ends when the next starts) do not overlap.
func (s *Session) OverlapsWith(other *Session) bool {
	if other == nil || other.ID == s.ID {
		return false
	}
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Clone returns a copy that can be edited without touching the original.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Participant is a client the trainer runs sessions with.
type Participant struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// NewParticipant creates a participant with a fresh ID.
func NewParticipant(name, email string) (*Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Participant{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.TrimSpace(email),
		CreatedAt: time.Now(),
	}, nil
}
