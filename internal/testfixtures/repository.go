package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/javiermolinar/trainerdesk/internal/session"
)

// FetchCall records one FetchSessions invocation.
type FetchCall struct {
	Start time.Time
	End   time.Time
}

// Repository is an in-memory session.Repository for tests.
//
// Set the *Err fields to make the matching operation fail. Raw sessions are
// appended to every fetch result unfiltered, which lets tests feed malformed
// records through the boundary. OnFetch runs after the result is assembled
// and before it is returned; it may block on ctx or a channel to simulate
// slow responses.
type Repository struct {
	mu           sync.Mutex
	sessions     map[string]*session.Session
	participants map[string]*session.Participant
	fetches      []FetchCall
	saves        int
	deletes      int

	FetchErr  error
	SaveErr   error
	DeleteErr error
	Raw       []*session.Session
	OnFetch   func(ctx context.Context, start, end time.Time) error
}

// NewRepository creates a repository seeded with sessions.
func NewRepository(sessions ...*session.Session) *Repository {
	r := &Repository{
		sessions:     make(map[string]*session.Session),
		participants: make(map[string]*session.Participant),
	}
	for _, s := range sessions {
		r.sessions[s.ID] = s.Clone()
	}
	return r
}

// FetchSessions implements session.Source.
func (r *Repository) FetchSessions(ctx context.Context, start, end time.Time) ([]*session.Session, error) {
	r.mu.Lock()
	r.fetches = append(r.fetches, FetchCall{Start: start, End: end})
	err := r.FetchErr
	var result []*session.Session
	for _, s := range r.sessions {
		if !s.Start.Before(start) && s.Start.Before(end) {
			result = append(result, s.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Start.Before(result[j].Start) })
	result = append(result, r.Raw...)
	hook := r.OnFetch
	r.mu.Unlock()

	if hook != nil {
		if herr := hook(ctx, start, end); herr != nil {
			return nil, herr
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SaveSession implements session.Store.
func (r *Repository) SaveSession(_ context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SaveErr != nil {
		return r.SaveErr
	}
	if err := s.Validate(); err != nil {
		return err
	}
	r.saves++
	r.sessions[s.ID] = s.Clone()
	return nil
}

// DeleteSession implements session.Store.
func (r *Repository) DeleteSession(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	if _, ok := r.sessions[id]; !ok {
		return session.ErrSessionNotFound
	}
	r.deletes++
	delete(r.sessions, id)
	return nil
}

// GetSession implements session.Repository.
func (r *Repository) GetSession(_ context.Context, id string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return s.Clone(), nil
}

// CreateParticipant implements session.Repository.
func (r *Repository) CreateParticipant(_ context.Context, p *session.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.participants[p.ID] = &cp
	return nil
}

// GetParticipant implements session.Repository.
func (r *Repository) GetParticipant(_ context.Context, id string) (*session.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return nil, session.ErrParticipantNotFound
	}
	cp := *p
	return &cp, nil
}

// ListParticipants implements session.Repository.
func (r *Repository) ListParticipants(_ context.Context) ([]*session.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*session.Participant, 0, len(r.participants))
	for _, p := range r.participants {
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Close implements session.Repository.
func (r *Repository) Close() error { return nil }

// Fetches returns the FetchSessions calls seen so far.
func (r *Repository) Fetches() []FetchCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FetchCall(nil), r.fetches...)
}

// Saves returns the number of successful SaveSession calls.
func (r *Repository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// Deletes returns the number of successful DeleteSession calls.
func (r *Repository) Deletes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deletes
}

// Len returns the number of stored sessions.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

var _ session.Repository = (*Repository)(nil)
